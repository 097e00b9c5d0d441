package cached

import (
	"context"
	"hash/fnv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-directory/internal/adapter/cache"
	domain "user-directory/internal/domain/user"
	"user-directory/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group

	// versions guards against a slow read re-caching a row that a concurrent
	// write already replaced. Ids hash onto a fixed set of counters; a shared
	// counter only costs a skipped cache fill.
	mu       sync.Mutex
	versions [versionShards]uint64
}

const versionShards = 256

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// List always reads from the database; the collection is not cached.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// Create delegates to the DB repository and primes the cache with the stored record.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := r.dbRepo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	r.store(ctx, created)
	return created, nil
}

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do(flightKey(id), func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		seen := r.version(id)
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.storeIfCurrent(ctx, u, seen)
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// callers sharing a flight must not share the record
	u := *result.(*domain.User)
	u.Interests = append([]string{}, u.Interests...)
	return &u, nil
}

// Replace updates the user in DB and invalidates the cache.
func (r *CachedUserRepository) Replace(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.markWritten(u.ID)
	updated, err := r.dbRepo.Replace(ctx, u)
	r.markWritten(u.ID)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, u.ID, "update")
	return updated, nil
}

// Delete deletes the user from DB and invalidates the cache.
func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	r.markWritten(id)
	err := r.dbRepo.Delete(ctx, id)
	r.markWritten(id)
	if err != nil {
		return err
	}
	r.invalidate(ctx, id, "delete")
	return nil
}

func (r *CachedUserRepository) store(ctx context.Context, u *domain.User) {
	if r.cache == nil || u == nil {
		return
	}
	if err := r.cache.Set(ctx, u); err != nil {
		r.log.Warn("failed to cache user", zap.String("id", u.ID), zap.Error(err))
	}
}

// storeIfCurrent caches a row read from the database unless a write to the
// same id started after the read did.
func (r *CachedUserRepository) storeIfCurrent(ctx context.Context, u *domain.User, seen uint64) {
	if r.cache == nil || u == nil {
		return
	}
	// held across Set so a write cannot slip between the check and the fill
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.versions[shard(u.ID)] != seen {
		r.log.Debug("skipping cache fill for concurrently written user", zap.String("id", u.ID))
		return
	}
	if err := r.cache.Set(ctx, u); err != nil {
		r.log.Warn("failed to cache user", zap.String("id", u.ID), zap.Error(err))
	}
}

// markWritten marks every read of id already in flight as stale. Writes call
// it on both sides of the database change: before, for reads that started
// earlier, and after, for reads that overlapped the change itself.
func (r *CachedUserRepository) markWritten(id string) {
	r.mu.Lock()
	r.versions[shard(id)]++
	r.mu.Unlock()
	r.group.Forget(flightKey(id))
}

func (r *CachedUserRepository) version(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.versions[shard(id)]
}

func shard(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % versionShards)
}

func flightKey(id string) string {
	return "user:" + id
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.String("id", id), zap.Error(err))
	}
}
