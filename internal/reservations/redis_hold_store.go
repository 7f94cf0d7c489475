package reservations

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"circustix/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// Lua script for atomic seat holding. Expiry lives in a sorted set scored by
// the expiry instant, so a hold is live iff its score is after now.
var luaAcquireHolds = redis.NewScript(`
-- KEYS[1] = expiry zset, KEYS[2] = owner hash, KEYS[3] = context set
-- ARGV[1] = now_ms, ARGV[2] = expires_ms, ARGV[3] = holder
-- ARGV[4] = show context, ARGV[5] = key ttl ms, ARGV[6..N] = seat ids

local now = tonumber(ARGV[1])
local holder = ARGV[3]

-- Check every seat before writing any
local conflicts = {}
for i = 6, #ARGV do
    local score = redis.call("ZSCORE", KEYS[1], ARGV[i])
    if score and tonumber(score) > now then
        local owner = redis.call("HGET", KEYS[2], ARGV[i])
        if owner ~= holder then
            table.insert(conflicts, ARGV[i])
        end
    end
end

if #conflicts > 0 then
    table.insert(conflicts, 1, 0)
    return conflicts
end

for i = 6, #ARGV do
    redis.call("ZADD", KEYS[1], ARGV[2], ARGV[i])
    redis.call("HSET", KEYS[2], ARGV[i], holder)
end
redis.call("PEXPIRE", KEYS[1], ARGV[5])
redis.call("PEXPIRE", KEYS[2], ARGV[5])
redis.call("SADD", KEYS[3], ARGV[4])

return {1, #ARGV - 5}
`)

// Lua script for releasing holds; an empty holder releases any owner
var luaReleaseHolds = redis.NewScript(`
-- KEYS[1] = expiry zset, KEYS[2] = owner hash
-- ARGV[1] = holder, ARGV[2..N] = seat ids

local released = 0
for i = 2, #ARGV do
    local owner = redis.call("HGET", KEYS[2], ARGV[i])
    if ARGV[1] == "" or not owner or owner == ARGV[1] then
        released = released + redis.call("ZREM", KEYS[1], ARGV[i])
        redis.call("HDEL", KEYS[2], ARGV[i])
    end
end

return released
`)

// Lua script that purges expired holds of one context and lists the live ones
var luaLiveHolds = redis.NewScript(`
-- KEYS[1] = expiry zset, KEYS[2] = owner hash, KEYS[3] = context set
-- ARGV[1] = now_ms, ARGV[2] = show context

local expired = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
for i = 1, #expired do
    redis.call("ZREM", KEYS[1], expired[i])
    redis.call("HDEL", KEYS[2], expired[i])
end

if redis.call("ZCARD", KEYS[1]) == 0 then
    redis.call("SREM", KEYS[3], ARGV[2])
    return {#expired}
end

local out = {#expired}
local live = redis.call("ZRANGEBYSCORE", KEYS[1], "(" .. ARGV[1], "+inf", "WITHSCORES")
for i = 1, #live, 2 do
    table.insert(out, live[i])
    table.insert(out, live[i + 1])
    table.insert(out, redis.call("HGET", KEYS[2], live[i]) or "")
end

return out
`)

type redisHoldStore struct {
	redis *redis.Client
	now   func() time.Time
}

// NewRedisHoldStore shares holds across instances through Redis
func NewRedisHoldStore(client *redis.Client, now func() time.Time) HoldStore {
	if now == nil {
		now = time.Now
	}
	return &redisHoldStore{redis: client, now: now}
}

func holdKeys(showContext string) []string {
	return []string{
		constants.BuildHoldExpiryKey(showContext),
		constants.BuildHoldOwnerKey(showContext),
		constants.CACHE_KEY_HOLD_CONTEXTS,
	}
}

func (r *redisHoldStore) Acquire(ctx context.Context, showContext, holder string, seatIDs []string, ttl time.Duration) (time.Time, error) {
	if r.redis == nil {
		return time.Time{}, fmt.Errorf("redis client not available")
	}

	now := r.now()
	expiresAt := now.Add(ttl)

	// Prepare arguments for Lua script
	args := []interface{}{
		now.UnixMilli(),
		expiresAt.UnixMilli(),
		holder,
		showContext,
		(ttl + constants.TTL_HOLD_INDEX).Milliseconds(),
	}
	for _, id := range seatIDs {
		args = append(args, id)
	}

	result, err := luaAcquireHolds.Run(ctx, r.redis, holdKeys(showContext), args...).Slice()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to execute atomic seat hold: %w", err)
	}
	if len(result) == 0 {
		return time.Time{}, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := result[0].(int64)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid success flag in Lua script result")
	}
	if success == 0 {
		conflicts := make([]string, 0, len(result)-1)
		for _, v := range result[1:] {
			if id, ok := v.(string); ok {
				conflicts = append(conflicts, id)
			}
		}
		return time.Time{}, &HoldConflictError{ShowContext: showContext, SeatIDs: conflicts}
	}

	// scores are whole milliseconds
	return time.UnixMilli(expiresAt.UnixMilli()), nil
}

func (r *redisHoldStore) Release(ctx context.Context, showContext, holder string, seatIDs []string) error {
	if r.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if len(seatIDs) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, holder)
	for _, id := range seatIDs {
		args = append(args, id)
	}

	if err := luaReleaseHolds.Run(ctx, r.redis, holdKeys(showContext)[:2], args...).Err(); err != nil {
		return fmt.Errorf("failed to execute atomic seat release: %w", err)
	}
	return nil
}

func (r *redisHoldStore) Live(ctx context.Context, showContext string) ([]Hold, error) {
	holds, _, err := r.live(ctx, showContext)
	return holds, err
}

func (r *redisHoldStore) live(ctx context.Context, showContext string) ([]Hold, int, error) {
	if r.redis == nil {
		return nil, 0, fmt.Errorf("redis client not available")
	}

	result, err := luaLiveHolds.Run(ctx, r.redis, holdKeys(showContext), r.now().UnixMilli(), showContext).Slice()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read holds: %w", err)
	}
	if len(result) == 0 {
		return nil, 0, fmt.Errorf("unexpected result format from Lua script")
	}

	purged, _ := result[0].(int64)
	holds := make([]Hold, 0, (len(result)-1)/3)
	for i := 1; i+2 < len(result); i += 3 {
		seatID, _ := result[i].(string)
		scoreStr, _ := result[i+1].(string)
		holder, _ := result[i+2].(string)
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid hold expiry %q: %w", scoreStr, err)
		}
		holds = append(holds, Hold{
			ShowContext: showContext,
			SeatID:      seatID,
			Holder:      holder,
			ExpiresAt:   time.UnixMilli(int64(score)),
		})
	}
	return holds, int(purged), nil
}

func (r *redisHoldStore) Purge(ctx context.Context) (int, error) {
	if r.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	contexts, err := r.redis.SMembers(ctx, constants.CACHE_KEY_HOLD_CONTEXTS).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list hold contexts: %w", err)
	}

	total := 0
	for _, sc := range contexts {
		_, purged, err := r.live(ctx, sc)
		if err != nil {
			return total, err
		}
		total += purged
	}
	return total, nil
}
