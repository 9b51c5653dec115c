package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"employee-qbe-service/internal/adapter/cache"
	domain "employee-qbe-service/internal/domain/employee"
	"employee-qbe-service/internal/metrics"
	"employee-qbe-service/internal/usecase/employee"
	"employee-qbe-service/pkg/qbe"
)

// CachedEmployeeRepository implements employee.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
//
// Query By Example reads are cached under a key derived from the probe and
// the matcher fingerprint, prefixed by a generation counter. Writes bump the
// generation so that every cached search result becomes unreachable.
type CachedEmployeeRepository struct {
	dbRepo  employee.Repository
	cache   cache.EmployeeCache
	metrics *metrics.Metrics
	log     *zap.Logger
	group   singleflight.Group
}

// loadTimeout bounds a database load shared by concurrent callers.
const loadTimeout = 10 * time.Second

// NewCachedEmployeeRepository creates a new instance of CachedEmployeeRepository.
func NewCachedEmployeeRepository(dbRepo employee.Repository, c cache.EmployeeCache, m *metrics.Metrics, log *zap.Logger) employee.Repository {
	return &CachedEmployeeRepository{
		dbRepo:  dbRepo,
		cache:   c,
		metrics: m,
		log:     log,
	}
}

// Create stores the employee and invalidates cached search results.
func (r *CachedEmployeeRepository) Create(ctx context.Context, e *domain.Employee) (int64, error) {
	id, err := r.dbRepo.Create(ctx, e)
	if err != nil {
		return 0, err
	}

	if _, err := r.cache.BumpGeneration(ctx); err != nil {
		r.log.Warn("failed to invalidate query cache after create", zap.Int64("id", id), zap.Error(err))
	}
	return id, nil
}

// GetByID retrieves an employee by ID using Cache-Aside pattern.
func (r *CachedEmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	cached, err := r.cache.Get(ctx, id)
	if err != nil {
		r.metrics.CacheResult("error")
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
	} else if cached != nil {
		r.metrics.CacheResult("hit")
		return cached, nil
	} else {
		r.metrics.CacheResult("miss")
	}

	// Cache miss - use single-flight to prevent stampede
	key := fmt.Sprintf("employee:%d", id)
	result, err := r.share(ctx, key, func(ctx context.Context) (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if e, err := r.cache.Get(ctx, id); err == nil && e != nil {
			return e, nil
		}

		e, err := r.dbRepo.GetByID(ctx, id)
		if err != nil || e == nil {
			return e, err
		}

		if err := r.cache.Set(ctx, e); err != nil {
			r.log.Warn("failed to cache employee", zap.Int64("id", id), zap.Error(err))
		}
		return e, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.Employee), nil
}

// List delegates to the DB repository.
func (r *CachedEmployeeRepository) List(ctx context.Context, page, limit int64) ([]domain.Employee, int64, error) {
	return r.dbRepo.List(ctx, page, limit)
}

// FindAll returns the matches of the example, served from cache when possible.
func (r *CachedEmployeeRepository) FindAll(ctx context.Context, ex qbe.Example[domain.Employee]) ([]domain.Employee, error) {
	return readThrough(ctx, r, "find_all", ex, func(ctx context.Context) ([]domain.Employee, error) {
		return r.dbRepo.FindAll(ctx, ex)
	})
}

// FindOne returns the single match of the example, served from cache when possible.
func (r *CachedEmployeeRepository) FindOne(ctx context.Context, ex qbe.Example[domain.Employee]) (*domain.Employee, error) {
	return readThrough(ctx, r, "find_one", ex, func(ctx context.Context) (*domain.Employee, error) {
		return r.dbRepo.FindOne(ctx, ex)
	})
}

// Count returns the number of matches of the example, served from cache when possible.
func (r *CachedEmployeeRepository) Count(ctx context.Context, ex qbe.Example[domain.Employee]) (int64, error) {
	return readThrough(ctx, r, "count", ex, func(ctx context.Context) (int64, error) {
		return r.dbRepo.Count(ctx, ex)
	})
}

// Exists reports whether the example matches anything, served from cache when possible.
func (r *CachedEmployeeRepository) Exists(ctx context.Context, ex qbe.Example[domain.Employee]) (bool, error) {
	return readThrough(ctx, r, "exists", ex, func(ctx context.Context) (bool, error) {
		return r.dbRepo.Exists(ctx, ex)
	})
}

// queryKey builds the cache key of a QBE read. It returns false when the
// generation cannot be read, in which case the cache must be bypassed.
func (r *CachedEmployeeRepository) queryKey(ctx context.Context, op string, ex qbe.Example[domain.Employee]) (string, bool) {
	gen, err := r.cache.Generation(ctx)
	if err != nil {
		r.log.Warn("cache generation unavailable, bypassing query cache", zap.Error(err))
		return "", false
	}

	probe, err := json.Marshal(ex.Probe())
	if err != nil {
		return "", false
	}

	sum := sha256.New()
	sum.Write(probe)
	sum.Write([]byte{0})
	sum.Write([]byte(ex.Matcher().Fingerprint()))
	return fmt.Sprintf("employees:qbe:%d:%s:%s", gen, op, hex.EncodeToString(sum.Sum(nil))), true
}

// share runs fn once for all concurrent callers of key. fn gets a context
// that keeps the first caller's values but not its cancellation, bounded by
// loadTimeout. Each caller stops waiting as soon as its own ctx is done.
func (r *CachedEmployeeRepository) share(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := r.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(loadCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readThrough serves a QBE read from cache, collapsing concurrent misses for
// the same key into a single database call. Cache failures fall through to load.
func readThrough[V any](ctx context.Context, r *CachedEmployeeRepository, op string, ex qbe.Example[domain.Employee], load func(context.Context) (V, error)) (V, error) {
	key, ok := r.queryKey(ctx, op, ex)
	if !ok {
		r.metrics.CacheResult("error")
		return load(ctx)
	}

	var cached V
	hit, err := r.cache.GetQuery(ctx, key, &cached)
	switch {
	case err != nil:
		r.metrics.CacheResult("error")
		r.log.Warn("query cache get error, falling back to database", zap.String("key", key), zap.Error(err))
	case hit:
		r.metrics.CacheResult("hit")
		return cached, nil
	default:
		r.metrics.CacheResult("miss")
	}

	result, err := r.share(ctx, key, func(ctx context.Context) (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if err := r.cache.SetQuery(ctx, key, v); err != nil {
			r.log.Warn("failed to cache query result", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return result.(V), nil
}
