package repository

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// CachedRepository reads users through a cache and passes every other call
// to the wrapped repository. Cache errors are logged, never returned.
type CachedRepository struct {
	domain.Repository

	Cache  domain.UserCache
	Logger *zerolog.Logger
}

func NewCachedRepository(repo domain.Repository, cache domain.UserCache, logger *zerolog.Logger) *CachedRepository {
	return &CachedRepository{Repository: repo, Cache: cache, Logger: logger}
}

func (c *CachedRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := c.Cache.GetUser(ctx, id)
	switch {
	case err != nil:
		c.Logger.Warn().Err(err).Int64("user_id", id).Msg("can't get user from cache")
	case user != nil:
		return user, nil
	}

	user, err = c.Repository.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Cache.SetUser(ctx, user); err != nil {
		c.Logger.Warn().Err(err).Int64("user_id", id).Msg("can't put user into cache")
	}
	return user, nil
}
