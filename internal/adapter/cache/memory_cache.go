package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	domain "user-directory/internal/domain/user"
)

// MemoryUserCache keeps users in process memory. It suits a single API
// instance; use the Redis cache when several instances share a store.
type MemoryUserCache struct {
	store *gocache.Cache
	log   *zap.Logger
}

// NewMemoryUserCache creates an in-process cache whose entries expire after ttl.
func NewMemoryUserCache(ttl time.Duration, log *zap.Logger) *MemoryUserCache {
	return &MemoryUserCache{
		store: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

// Get returns a copy of the cached user, or nil on a miss.
func (c *MemoryUserCache) Get(_ context.Context, id string) (*domain.User, error) {
	v, ok := c.store.Get(cacheKey(id))
	if !ok {
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	}

	u, ok := v.(domain.User)
	if !ok {
		c.store.Delete(cacheKey(id))
		return nil, fmt.Errorf("unexpected cache entry type %T", v)
	}

	c.log.Debug("cache hit", zap.String("user_id", id))
	return cloneUser(&u), nil
}

// Set stores a copy of the user so later mutation by the caller cannot leak in.
func (c *MemoryUserCache) Set(_ context.Context, user *domain.User) error {
	if user == nil {
		return errNilUser
	}
	c.store.SetDefault(cacheKey(user.ID), *cloneUser(user))
	return nil
}

// Delete removes a user from the cache.
func (c *MemoryUserCache) Delete(_ context.Context, id string) error {
	c.store.Delete(cacheKey(id))
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	out := *u
	out.Interests = append([]string(nil), u.Interests...)
	if out.Interests == nil {
		out.Interests = []string{}
	}
	return &out
}
