// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package ratelimit provides a Redis-backed fixed-window limiter for
credential-sensitive endpoints (login, register).

Unlike the per-process token bucket in the middleware package, this limiter
shares its counters across all API replicas, so an attacker cannot multiply
their brute-force budget by spraying requests over instances.
*/
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript atomically increments the window counter and arms its
// expiry on first use.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// FixedWindow limits requests per key in a fixed time window.
type FixedWindow struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewFixedWindow creates a Redis-backed fixed-window limiter.
func NewFixedWindow(client *redis.Client, prefix string, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the key is within quota for the current window.
//
// On Redis failures it fails open: an unreachable limiter must not take the
// login endpoint down with it. The global per-IP token bucket still applies.
func (limiter *FixedWindow) Allow(ctx context.Context, key string) bool {
	count, err := fixedWindowScript.Run(ctx, limiter.client,
		[]string{limiter.prefix + key},
		limiter.window.Milliseconds(),
	).Int64()
	if err != nil {
		return true
	}
	return count <= int64(limiter.limit)
}
