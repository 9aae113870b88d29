package models

import "time"

type Booking struct {
	ID         int64     `json:"id" yaml:"id"`
	Start      time.Time `json:"start" yaml:"start"`
	End        time.Time `json:"end" yaml:"end"`
	ItemID     int64     `json:"item_id" yaml:"item_id"`
	ItemName   string    `json:"item_name" yaml:"-"`
	BookerID   int64     `json:"booker_id" yaml:"booker_id"`
	BookerName string    `json:"booker_name" yaml:"-"`
	Status     Status    `json:"status" yaml:"status"`
	Version    int64     `json:"version" yaml:"-"`
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"-"`
}

// View returns the start/end pair of the booking.
func (b *Booking) View() *BookingView {
	return &BookingView{Start: b.Start, End: b.End}
}
