package constants

import (
	"time"
)

// Redis key layout
// Pattern: circustix:{module}:{structure}:{identifier}

// ================== TTL DURATIONS ==================

const (
	TTL_SHOW_CATALOG = 1 * time.Hour    // show listings and tour stops
	TTL_HOLD_INDEX   = 15 * time.Minute // hold index keys outlive any single hold
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "circustix"
)

// ================== SHOWS MODULE ==================

const (
	CACHE_KEY_SHOW_CATALOG = CACHE_PREFIX + ":shows:catalog"
)

// ================== RESERVATIONS MODULE ==================

const (
	// Sorted set per show context: member = seat id, score = expiry (unix ms)
	CACHE_KEY_HOLDS_BY_CONTEXT = CACHE_PREFIX + ":holds:expiry:" // + show-context
	// Hash per show context: field = seat id, value = holder token
	CACHE_KEY_HOLD_OWNERS = CACHE_PREFIX + ":holds:owner:" // + show-context
	// Set of show contexts that currently carry holds (sweeper input)
	CACHE_KEY_HOLD_CONTEXTS = CACHE_PREFIX + ":holds:contexts"

	// Fallback order records
	CACHE_KEY_ORDER_DETAIL = CACHE_PREFIX + ":orders:detail:" // + order-id
	// Set of fallback order ids per show context
	CACHE_KEY_ORDERS_BY_CONTEXT = CACHE_PREFIX + ":orders:context:" // + show-context
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + ip:type
)

// ================== HELPER FUNCTIONS ==================

func BuildHoldExpiryKey(showContext string) string {
	return CACHE_KEY_HOLDS_BY_CONTEXT + showContext
}

func BuildHoldOwnerKey(showContext string) string {
	return CACHE_KEY_HOLD_OWNERS + showContext
}

func BuildOrderDetailKey(orderID string) string {
	return CACHE_KEY_ORDER_DETAIL + orderID
}

func BuildOrdersByContextKey(showContext string) string {
	return CACHE_KEY_ORDERS_BY_CONTEXT + showContext
}

func BuildRateLimitKey(ip, limitType string) string {
	return CACHE_KEY_RATE_LIMIT + ip + ":" + limitType
}
