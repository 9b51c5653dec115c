package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "employee-qbe-service/internal/domain/employee"
)

// generationKey holds a counter that is part of every query cache key.
// Bumping it orphans all cached query results at once.
const generationKey = "employees:qbe:generation"

// EmployeeCache defines the interface for employee caching operations.
type EmployeeCache interface {
	// Get retrieves an employee from cache by ID.
	// Returns nil if the employee is not found in cache.
	Get(ctx context.Context, id int64) (*domain.Employee, error)

	// Set stores an employee in cache with the configured TTL.
	Set(ctx context.Context, e *domain.Employee) error

	// GetQuery decodes a cached query result into dest and reports whether it was present.
	GetQuery(ctx context.Context, key string, dest any) (bool, error)

	// SetQuery stores a query result under key with the configured TTL.
	SetQuery(ctx context.Context, key string, value any) error

	// Generation returns the current query cache generation.
	Generation(ctx context.Context) (int64, error)

	// BumpGeneration invalidates every cached query result.
	BumpGeneration(ctx context.Context) (int64, error)
}

// RedisEmployeeCache implements EmployeeCache using Redis as the backing store.
type RedisEmployeeCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisEmployeeCache creates a new Redis-backed employee cache.
func NewRedisEmployeeCache(client *redis.Client, ttl time.Duration, log *zap.Logger) EmployeeCache {
	return &RedisEmployeeCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for an employee ID.
func (c *RedisEmployeeCache) cacheKey(id int64) string {
	return fmt.Sprintf("employee:%d", id)
}

// Get retrieves an employee from Redis cache.
func (c *RedisEmployeeCache) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	var e domain.Employee
	hit, err := c.get(ctx, c.cacheKey(id), &e)
	if err != nil || !hit {
		return nil, err
	}
	return &e, nil
}

// Set stores an employee in Redis cache with TTL.
func (c *RedisEmployeeCache) Set(ctx context.Context, e *domain.Employee) error {
	if e == nil {
		return errors.New("cannot cache nil employee")
	}
	return c.set(ctx, c.cacheKey(e.ID), e)
}

// GetQuery retrieves a cached query result.
func (c *RedisEmployeeCache) GetQuery(ctx context.Context, key string, dest any) (bool, error) {
	return c.get(ctx, key, dest)
}

// SetQuery stores a query result.
func (c *RedisEmployeeCache) SetQuery(ctx context.Context, key string, value any) error {
	return c.set(ctx, key, value)
}

// Generation returns the current generation, 0 when none was recorded yet.
func (c *RedisEmployeeCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.log.Error("failed to read cache generation", zap.Error(err))
		return 0, err
	}
	return gen, nil
}

// BumpGeneration increments the generation counter.
func (c *RedisEmployeeCache) BumpGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Incr(ctx, generationKey).Result()
	if err != nil {
		c.log.Error("failed to bump cache generation", zap.Error(err))
		return 0, err
	}
	c.log.Debug("query cache generation bumped", zap.Int64("generation", gen))
	return gen, nil
}

func (c *RedisEmployeeCache) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("key", key), zap.Error(err))
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Error("failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, err
	}

	c.log.Debug("cache hit", zap.String("key", key))
	return true, nil
}

func (c *RedisEmployeeCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Error("failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("cached value", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}
