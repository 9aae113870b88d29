package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ParseState turns a raw filter value into a BookingState. Empty means ALL.
func ParseState(raw string) (models.BookingState, error) {
	state, err := models.ParseBookingState(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return state, nil
}

// resolveActor loads the acting user. A missing actor is refused as Forbidden.
func resolveActor(ctx context.Context, repo domain.Repository, userID int64) (*models.User, error) {
	user, err := repo.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d is unknown", domain.ErrForbidden, userID)
	}
	return user, err
}

// observe records duration and failure kind for op. Use with defer.
func observe(logger *zerolog.Logger, op string, started time.Time, err *error) {
	metrics.ObserveDuration(op, started)
	if *err == nil {
		return
	}

	kind := domain.Kind(*err)
	metrics.IncFailure(op, kind)

	event := logger.Warn()
	if kind == domain.KindInternal {
		event = logger.Error()
	}
	event.Err(*err).Str("operation", op).Str("kind", kind).Msg("operation failed")
}

func publish(logger *zerolog.Logger, publisher domain.EventPublisher, eventType string, payload interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishJSON(eventType, payload); err != nil {
		logger.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
