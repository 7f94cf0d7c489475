package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"circustix/internal/shared/config"
	"circustix/internal/shared/constants"
)

type RateLimitType string

const (
	RateLimitTypeDefault  RateLimitType = "default"
	RateLimitTypePublic   RateLimitType = "public"
	RateLimitTypeHold     RateLimitType = "hold"
	RateLimitTypeOrder    RateLimitType = "order"
	RateLimitTypeCheckout RateLimitType = "checkout"
	RateLimitTypeHealth   RateLimitType = "health"
)

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// Sliding window over a sorted set of request timestamps
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current + 1, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return {current + 1, limit - current - 1}
`)

// RateLimiter handles rate limiting using Redis. Without a client every
// request is allowed.
type RateLimiter struct {
	client    redis.Scripter
	config    config.RateLimitConfig
	whitelist map[string]bool
	now       func() time.Time
}

func NewRateLimiter(client redis.Scripter, cfg config.RateLimitConfig) *RateLimiter {
	whitelist := make(map[string]bool, len(cfg.WhitelistedIPs))
	for _, ip := range cfg.WhitelistedIPs {
		whitelist[ip] = true
	}
	return &RateLimiter{
		client:    client,
		config:    cfg,
		whitelist: whitelist,
		now:       time.Now,
	}
}

// IsAllowed counts one request from clientIP against the limit of limitType
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.Limit(limitType)
	now := r.now()

	if !r.config.Enabled || r.client == nil || r.whitelist[clientIP] || limit <= 0 {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: now.Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := constants.BuildRateLimitKey(clientIP, string(limitType))
	windowStart := now.Add(-r.config.WindowDuration)

	values, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()[:8]),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response: %v", values)
	}

	return &Result{
		Allowed:   int(values[0]) <= limit,
		Limit:     limit,
		Remaining: int(values[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

// Limit returns the request budget per window of a limit type
func (r *RateLimiter) Limit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeHold:
		return r.config.HoldRequests
	case RateLimitTypeOrder:
		return r.config.OrderRequests
	case RateLimitTypeCheckout:
		return r.config.CheckoutRequests
	case RateLimitTypeHealth:
		return r.config.HealthRequests
	default:
		return r.config.DefaultRequests
	}
}
