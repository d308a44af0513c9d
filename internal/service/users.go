package service

import (
	"context"
	"errors"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"
)

// Users serves public profile reads through the cache-aside path.
type Users struct {
	store store.Store
	cache *cache.Cache
	ttl   time.Duration
}

func NewUsers(st store.Store, ch *cache.Cache, ttl time.Duration) *Users {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Users{store: st, cache: ch, ttl: ttl}
}

// ByID returns a user's public profile. The cached entry is the profile
// projection, which carries no mutable security fields, so lockout
// bookkeeping on the underlying record never makes it stale.
func (s *Users) ByID(ctx context.Context, id string) (models.Profile, error) {
	return cache.Lookup(s.cache, cache.KeyUser(id), s.ttl, func() (models.Profile, error) {
		user, err := s.store.FindUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.Profile{}, util.NotFound("user not found")
			}
			return models.Profile{}, err
		}
		return user.PublicProfile(), nil
	})
}

// All returns every non-deleted user's public profile.
func (s *Users) All(ctx context.Context) ([]models.Profile, error) {
	return cache.Lookup(s.cache, cache.KeyAllUsers, s.ttl, func() ([]models.Profile, error) {
		users, err := s.store.FindAllUsers(ctx)
		if err != nil {
			return nil, err
		}
		profiles := make([]models.Profile, 0, len(users))
		for i := range users {
			profiles = append(profiles, users[i].PublicProfile())
		}
		return profiles, nil
	})
}
