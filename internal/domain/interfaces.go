package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the entity store consumed by the booking core.
// Lookups of a single entity return an error wrapping ErrNotFound on a miss.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)

	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error)

	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status models.Status) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time) ([]*models.Booking, error)
	GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	GetBookingsByItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error)
	GetBookingByBookerAndItem(ctx context.Context, bookerID, itemID int64) (*models.Booking, error)
	HasApprovedOverlap(ctx context.Context, itemID int64, start, end time.Time) (bool, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
	GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

// UserCache keeps user records close to the core. Users are immutable from
// the core's perspective so entries only expire. A miss returns nil, nil.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	SetUser(ctx context.Context, user *models.User) error
}

// RateLimiter counts actions per user in a fixed window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	Decide(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetByID(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state models.BookingState) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state models.BookingState) ([]*models.Booking, error)
}

type ItemService interface {
	WithBookings(ctx context.Context, itemID, requesterID int64) (*models.ItemView, error)
	ListByOwnerWithBookings(ctx context.Context, ownerID int64) ([]*models.ItemView, error)
	Search(ctx context.Context, text string) ([]*models.ItemView, error)
	CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}
