package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/RON-000000/photocomp/internal/model"
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a keyed request fits within a fixed window.
// Implementations are injected into the middleware so a single-process
// deployment can use in-memory counters while a multi-replica one shares
// state through Redis.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// entry tracks request count and window end for a single key.
type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryLimiter is a per-process fixed-window limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	ml := &MemoryLimiter{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
	}
	go ml.sweep()
	return ml
}

func (ml *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	e, ok := ml.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &entry{count: 1, windowEnd: now.Add(ml.window)}
		ml.entries[key] = e
		return Decision{Allowed: true, Limit: ml.max, Remaining: ml.max - 1, ResetAt: e.windowEnd}, nil
	}

	e.count++
	remaining := ml.max - e.count
	return Decision{
		Allowed:   remaining >= 0,
		Limit:     ml.max,
		Remaining: max(remaining, 0),
		ResetAt:   e.windowEnd,
	}, nil
}

func (ml *MemoryLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		ml.mu.Lock()
		now := time.Now()
		for key, e := range ml.entries {
			if now.After(e.windowEnd) {
				delete(ml.entries, key)
			}
		}
		ml.mu.Unlock()
	}
}

// RedisLimiter shares a fixed-window counter across replicas with
// INCR plus a window-length EXPIRE set on the first hit.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, max: max, window: window}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, key)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return Decision{}, err
		}
	}

	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}

	remaining := rl.max - int(count)
	return Decision{
		Allowed:   remaining >= 0,
		Limit:     rl.max,
		Remaining: max(remaining, 0),
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// RateLimit enforces the injected limiter, keying on the authenticated
// user when present and the client IP otherwise. Limiter errors fail
// open so a Redis outage does not take request handling down with it.
func RateLimit(l Limiter) fiber.Handler {
	return func(c fiber.Ctx) error {
		d, err := l.Allow(c.Context(), limitKey(c))
		if err != nil {
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", d.ResetAt.Unix()))

		if !d.Allowed {
			retryAfter := int(time.Until(d.ResetAt).Seconds()) + 1
			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

// limitKey scopes the counter to route plus caller, so exhausting one
// endpoint's budget does not lock the caller out of its tier siblings.
func limitKey(c fiber.Ctx) string {
	route := c.Method() + " " + c.Route().Path
	if p, ok := c.Locals(principalKey).(model.Principal); ok && p.UserID != "" {
		return route + "|user:" + p.UserID
	}
	return route + "|ip:" + c.IP()
}

// Limiters bundles the per-tier limiters the router hands to route groups.
type Limiters struct {
	Strict   Limiter // destructive writes: 5 req/min
	Moderate Limiter // votes, ratings, comments: 10 req/min
	Relaxed  Limiter // reads and profile edits: 30 req/min
	Upload   Limiter // image uploads: 3 req/min
}

// NewMemoryLimiters builds the standard tiers on per-process counters.
func NewMemoryLimiters() Limiters {
	return Limiters{
		Strict:   NewMemoryLimiter(5, time.Minute),
		Moderate: NewMemoryLimiter(10, time.Minute),
		Relaxed:  NewMemoryLimiter(30, time.Minute),
		Upload:   NewMemoryLimiter(3, time.Minute),
	}
}

// NewRedisLimiters builds the standard tiers on a shared Redis client.
func NewRedisLimiters(client *redis.Client) Limiters {
	return Limiters{
		Strict:   NewRedisLimiter(client, "strict", 5, time.Minute),
		Moderate: NewRedisLimiter(client, "moderate", 10, time.Minute),
		Relaxed:  NewRedisLimiter(client, "relaxed", 30, time.Minute),
		Upload:   NewRedisLimiter(client, "upload", 3, time.Minute),
	}
}
