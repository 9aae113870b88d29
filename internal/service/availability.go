package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// AvailabilityRule decides whether an item may be booked for a period.
type AvailabilityRule struct {
	// PreventOverlap rejects periods that intersect an approved booking.
	// Off by default: concurrent WAITING bookings are left for the owner to resolve.
	PreventOverlap bool
}

func (r AvailabilityRule) IsBookable(item *models.Item) bool {
	return item != nil && item.Available
}

// Check returns a validation error when the item cannot be booked for [start, end).
func (r AvailabilityRule) Check(ctx context.Context, repo domain.Repository, item *models.Item, start, end time.Time) error {
	if !r.IsBookable(item) {
		return fmt.Errorf("%w: item %d is not available", domain.ErrValidation, item.ID)
	}
	if !r.PreventOverlap {
		return nil
	}

	overlap, err := repo.HasApprovedOverlap(ctx, item.ID, start, end)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("%w: item %d is already booked for the period", domain.ErrValidation, item.ID)
	}
	return nil
}
