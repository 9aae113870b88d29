package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	limiter  domain.RateLimiter
	rule     AvailabilityRule
	cfg      config.BookingConfig
	logger   *zerolog.Logger
	now      func() time.Time
}

// NewBookingService wires the lifecycle and query operations. eventBus and
// limiter may be nil.
func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, limiter domain.RateLimiter, cfg config.BookingConfig, logger *zerolog.Logger) *BookingService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "booking_service").Logger()
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		limiter:  limiter,
		rule:     AvailabilityRule{PreventOverlap: cfg.PreventOverlap},
		cfg:      cfg,
		logger:   &l,
		now:      time.Now,
	}
}

var _ domain.BookingService = (*BookingService)(nil)

func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (_ *models.Booking, err error) {
	defer observe(s.logger, "booking.create", time.Now(), &err)

	booker, err := s.repo.GetUser(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("%w: booking start must be before its end", domain.ErrValidation)
	}
	if err := s.rule.Check(ctx, s.repo, item, start, end); err != nil {
		return nil, err
	}
	if err := s.checkRateLimit(ctx, bookerID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:      start,
		End:        end,
		ItemID:     item.ID,
		ItemName:   item.Name,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Status:     models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", booker.ID).
		Msg("booking created")
	publish(s.logger, s.eventBus, events.EventBookingCreated, bookingPayload(booking, 0))

	return booking, nil
}

func (s *BookingService) Decide(ctx context.Context, ownerID, bookingID int64, approved bool) (_ *models.Booking, err error) {
	defer observe(s.logger, "booking.decide", time.Now(), &err)

	if _, err := resolveActor(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking %d references a missing item: %v", domain.ErrValidation, bookingID, err)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner of item %d may decide booking %d", domain.ErrValidation, item.ID, bookingID)
	}

	target := models.StatusRejected
	if approved {
		target = models.StatusApproved
	}
	if s.cfg.StrictTransitions && !booking.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: booking %d is already %s", domain.ErrValidation, bookingID, booking.Status)
	}

	if err := s.repo.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, target); err != nil {
		return nil, err
	}
	booking.Status = target
	booking.Version++

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("owner_id", ownerID).
		Str("status", string(target)).
		Msg("booking decided")
	publish(s.logger, s.eventBus, eventType, bookingPayload(booking, ownerID))

	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, requesterID, bookingID int64) (_ *models.Booking, err error) {
	defer observe(s.logger, "booking.get", time.Now(), &err)

	if _, err := resolveActor(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID == requesterID {
		return booking, nil
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking %d references a missing item: %v", domain.ErrValidation, bookingID, err)
	}
	if item.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: user %d may not view booking %d", domain.ErrValidation, requesterID, bookingID)
	}
	return booking, nil
}

// checkRateLimit fails open when the limiter itself is unavailable.
func (s *BookingService) checkRateLimit(ctx context.Context, bookerID int64) error {
	if s.limiter == nil || s.cfg.CreateLimit <= 0 {
		return nil
	}
	allowed, err := s.limiter.CheckRateLimit(ctx, bookerID, s.cfg.CreateLimit, s.cfg.CreateWindow)
	if err != nil {
		s.logger.Warn().Err(err).Int64("booker_id", bookerID).Msg("rate limiter unavailable")
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: too many bookings by user %d, try again later", domain.ErrValidation, bookerID)
	}
	return nil
}

func bookingPayload(b *models.Booking, decidedBy int64) events.BookingEventPayload {
	return events.BookingEventPayload{
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		ItemName:   b.ItemName,
		BookerID:   b.BookerID,
		BookerName: b.BookerName,
		Status:     string(b.Status),
		Start:      b.Start,
		End:        b.End,
		DecidedBy:  decidedBy,
	}
}
