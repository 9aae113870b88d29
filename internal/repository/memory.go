package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"

	"golang.org/x/time/rate"
)

// MemoryStore is the in-process stand-in for RedisStore.
type MemoryStore struct {
	users    sync.Map
	limiters sync.Map
	ttl      time.Duration
	now      func() time.Time
}

type cachedUser struct {
	user      models.User
	expiresAt time.Time
}

type limiterKey struct {
	userID int64
	limit  int
	window time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	val, ok := r.users.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*cachedUser)
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		r.users.Delete(id)
		return nil, nil
	}
	user := entry.user
	return &user, nil
}

func (r *MemoryStore) SetUser(ctx context.Context, user *models.User) error {
	r.users.Store(user.ID, &cachedUser{user: *user, expiresAt: r.now().Add(r.ttl)})
	return nil
}

// CheckRateLimit uses a token bucket that refills limit tokens per window.
func (r *MemoryStore) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	key := limiterKey{userID: userID, limit: limit, window: window}
	val, _ := r.limiters.LoadOrStore(key, rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit))
	return val.(*rate.Limiter).AllowN(r.now(), 1), nil
}
