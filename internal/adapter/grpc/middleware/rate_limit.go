package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// tokenBucket refills KEYS[1] at ARGV[1] tokens/s up to ARGV[2] and takes one
// token if available. ARGV[3] is the current time in seconds, ARGV[4] the key TTL.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

tokens = math.min(capacity, tokens + math.max(0, now - last_refill) * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Enabled           bool
	RequestsPerSecond float64 // bucket refill rate
	BurstCapacity     int     // bucket size
	WindowSeconds     int     // idle buckets expire after this many seconds
}

// RateLimiter is a Redis-backed token bucket shared by the gRPC and HTTP servers.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	if config.WindowSeconds <= 0 {
		config.WindowSeconds = 60
	}
	if config.BurstCapacity <= 0 {
		config.BurstCapacity = int(config.RequestsPerSecond)
	}
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Config returns the limiter configuration.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow takes one token from the bucket identified by scope and client.
// Redis failures allow the request.
func (rl *RateLimiter) Allow(ctx context.Context, scope, client string) bool {
	if rl == nil || !rl.config.Enabled || rl.client == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:tb:%s:%s", scope, client)
	now := float64(rl.now().UnixMilli()) / 1000

	allowed, err := tokenBucket.Run(ctx, rl.client, []string{key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		now,
		rl.config.WindowSeconds,
	).Int64()
	if err != nil {
		rl.log.Warn("rate limiter redis error, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	if allowed == 0 {
		rl.log.Warn("rate limit exceeded",
			zap.String("scope", scope),
			zap.String("client_ip", client),
			zap.Float64("limit", rl.config.RequestsPerSecond),
			zap.Int("burst", rl.config.BurstCapacity),
		)
		return false
	}
	return true
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.Allow(ctx, info.FullMethod, clientIP(ctx)) {
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %.2f requests/second (burst capacity: %d)",
				rl.config.RequestsPerSecond, rl.config.BurstCapacity)
		}
		return handler(ctx, req)
	}
}

// clientIP extracts the client address from the gRPC context.
func clientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}

	return "unknown"
}
