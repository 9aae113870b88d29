package models

import "time"

type Item struct {
	ID          int64     `json:"id" yaml:"id"`
	OwnerID     int64     `json:"owner_id" yaml:"owner_id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Available   bool      `json:"available" yaml:"available"`
	RequestID   *int64    `json:"request_id,omitempty" yaml:"request_id"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}

// BookingView is the start/end pair shown to an item's owner as the last or next booking.
type BookingView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ItemView is an item with its derived scheduling data and comments.
type ItemView struct {
	Item
	LastBooking *BookingView `json:"last_booking"`
	NextBooking *BookingView `json:"next_booking"`
	Comments    []Comment    `json:"comments"`
}
