package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// Store is what the failover wrapper switches between.
type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	SetUser(ctx context.Context, user *models.User) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

const recoveryInterval = time.Minute

// FailoverStore routes calls to primary until it fails, then to fallback.
// The primary is retried once per recoveryInterval.
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// usePrimary reports whether the next call should go to the primary.
func (r *FailoverStore) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) > recoveryInterval {
		r.lastCheck = time.Now()
		return true
	}
	return false
}

func (r *FailoverStore) markResult(err error) {
	if err == nil {
		if r.isDown.Swap(false) {
			r.logger.Info().Msg("primary store recovered")
		}
		return
	}
	r.logger.Error().Err(err).Msg("primary store failed, falling back to memory")
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
	r.isDown.Store(true)
}

func (r *FailoverStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if r.usePrimary() {
		user, err := r.primary.GetUser(ctx, id)
		r.markResult(err)
		if err == nil {
			return user, nil
		}
	}
	return r.fallback.GetUser(ctx, id)
}

func (r *FailoverStore) SetUser(ctx context.Context, user *models.User) error {
	if r.usePrimary() {
		err := r.primary.SetUser(ctx, user)
		r.markResult(err)
		if err == nil {
			return nil
		}
	}
	return r.fallback.SetUser(ctx, user)
}

func (r *FailoverStore) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		r.markResult(err)
		if err == nil {
			return allowed, nil
		}
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
