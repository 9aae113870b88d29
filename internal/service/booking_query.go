package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// ListByBooker returns the booker's bookings in state, newest start first.
func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state models.BookingState) (_ []*models.Booking, err error) {
	defer observe(s.logger, "booking.list_by_booker", time.Now(), &err)

	if err := validateState(state); err != nil {
		return nil, err
	}
	if _, err := resolveActor(ctx, s.repo, bookerID); err != nil {
		return nil, err
	}
	return s.repo.GetBookingsByBooker(ctx, bookerID, state, s.now())
}

// ListByOwner returns bookings of the owner's items in state, newest start first.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state models.BookingState) (_ []*models.Booking, err error) {
	defer observe(s.logger, "booking.list_by_owner", time.Now(), &err)

	if err := validateState(state); err != nil {
		return nil, err
	}
	if _, err := resolveActor(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.Booking{}, nil
	}
	return s.repo.GetBookingsByOwner(ctx, ownerID, state, s.now())
}

func validateState(state models.BookingState) error {
	if !state.IsValid() {
		return fmt.Errorf("%w: unknown booking state %q", domain.ErrValidation, state)
	}
	return nil
}
