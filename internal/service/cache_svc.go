package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Competition documents change rarely outside deadline transitions.
	CompetitionCacheTTL = 5 * time.Minute
	// Leaderboards move with every vote, keep them short-lived.
	LeaderboardCacheTTL = time.Minute
)

// CacheService provides a Redis cache-aside layer for competition and
// leaderboard reads.
type CacheService struct {
	rdb    *redis.Client
	onHit  func()
	onMiss func()
}

// SetMetricsHooks wires hit/miss callbacks, typically Prometheus counters.
func (c *CacheService) SetMetricsHooks(onHit, onMiss func()) {
	c.onHit = onHit
	c.onMiss = onMiss
}

func (c *CacheService) recordHit() {
	if c.onHit != nil {
		c.onHit()
	}
}

func (c *CacheService) recordMiss() {
	if c.onMiss != nil {
		c.onMiss()
	}
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, the client stays nil and every cache operation becomes a
// no-op; the service keeps running without caching.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks and the
// shared rate limiter). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetCompetition retrieves a cached competition payload. Returns nil when
// not cached or caching is disabled.
func (c *CacheService) GetCompetition(ctx context.Context, competitionID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, competitionKey(competitionID)).Bytes()
	if err == redis.Nil {
		c.recordMiss()
		return nil, nil
	}
	if err == nil {
		c.recordHit()
	}
	return data, err
}

// SetCompetition stores a competition payload.
func (c *CacheService) SetCompetition(ctx context.Context, competitionID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, competitionKey(competitionID), b, CompetitionCacheTTL).Err()
}

// InvalidateCompetition drops a competition and its leaderboard from cache.
// Called after status transitions, updates and submission changes.
func (c *CacheService) InvalidateCompetition(ctx context.Context, competitionID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, competitionKey(competitionID), leaderboardKey(competitionID)).Err()
}

// GetLeaderboard retrieves a cached leaderboard payload.
func (c *CacheService) GetLeaderboard(ctx context.Context, competitionID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, leaderboardKey(competitionID)).Bytes()
	if err == redis.Nil {
		c.recordMiss()
		return nil, nil
	}
	if err == nil {
		c.recordHit()
	}
	return data, err
}

// SetLeaderboard stores a leaderboard payload.
func (c *CacheService) SetLeaderboard(ctx context.Context, competitionID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, leaderboardKey(competitionID), b, LeaderboardCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func competitionKey(competitionID string) string {
	return fmt.Sprintf("competition:%s", competitionID)
}

func leaderboardKey(competitionID string) string {
	return fmt.Sprintf("leaderboard:%s", competitionID)
}
