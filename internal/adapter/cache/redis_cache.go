package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-directory/internal/domain/user"
)

// entry is the JSON document stored per user. It is decoupled from the domain
// type so renaming a field there does not silently break cached data.
type entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int64     `json:"age"`
	Mobile    int64     `json:"mobile"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toEntry(u *domain.User) entry {
	return entry{
		ID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age, Mobile: u.Mobile,
		Interests: u.Interests, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (e entry) toDomain() *domain.User {
	interests := e.Interests
	if interests == nil {
		interests = []string{}
	}
	return &domain.User{
		ID: e.ID, Name: e.Name, Email: e.Email, Age: e.Age, Mobile: e.Mobile,
		Interests: interests, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

// RedisUserCache shares cached users between API instances.
type RedisUserCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a Redis-backed user cache whose entries expire after ttl.
func NewRedisUserCache(client redis.Cmdable, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: ttl, log: log.Named("redis_cache")}
}

// Get returns the cached user. An entry that no longer decodes is evicted
// and reported as a miss.
func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	key := cacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Warn("evicting undecodable cache entry", zap.String("user_id", id), zap.Error(err))
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("redis del %s: %w", key, delErr)
		}
		return nil, nil
	}

	c.log.Debug("cache hit", zap.String("user_id", id))
	return e.toDomain(), nil
}

// Set stores the user with the configured TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errNilUser
	}

	data, err := json.Marshal(toEntry(user))
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}

	key := cacheKey(user.ID)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the user; deleting an absent key is not an error.
func (c *RedisUserCache) Delete(ctx context.Context, id string) error {
	key := cacheKey(id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
