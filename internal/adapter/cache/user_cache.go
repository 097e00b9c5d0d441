// Package cache holds the read-through caches that sit in front of the user store.
package cache

import (
	"context"
	"errors"

	domain "user-directory/internal/domain/user"
)

// UserCache is a best-effort store of users keyed by id.
// Get reports a miss as (nil, nil).
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

var errNilUser = errors.New("cannot cache nil user")

// keyPrefix namespaces every cache entry; bump the version when entry changes shape.
const keyPrefix = "user-directory:v1:user:"

func cacheKey(id string) string {
	return keyPrefix + id
}
