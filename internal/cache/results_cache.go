package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"review-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// resultsTTL bounds how long a snapshot outlives its last write. The
// store stays the source of truth; the cache only spares a Mongo read
// on the results screen.
const resultsTTL = 24 * time.Hour

// ResultsCache keeps the latest simulation results per session in
// Redis.
type ResultsCache struct {
	client *redis.Client
}

// NewResultsCache connects to Redis. A failed ping returns an error
// so the caller can run without caching.
func NewResultsCache(addr, password, db string) (*ResultsCache, error) {
	dbNum, _ := strconv.Atoi(db)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &ResultsCache{client: client}, nil
}

func resultsKey(sessionID string) string {
	return "review:results:" + sessionID
}

// SetLatest stores the snapshot for a session, replacing any previous
// one.
func (c *ResultsCache) SetLatest(ctx context.Context, results models.SimulationResults) error {
	body, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resultsKey(results.SessionID), body, resultsTTL).Err()
}

// GetLatest returns the cached snapshot, or (nil, nil) on a miss.
func (c *ResultsCache) GetLatest(ctx context.Context, sessionID string) (*models.SimulationResults, error) {
	body, err := c.client.Get(ctx, resultsKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var results models.SimulationResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Invalidate drops a session's snapshot.
func (c *ResultsCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, resultsKey(sessionID)).Err()
}

// Close releases the connection pool.
func (c *ResultsCache) Close() error {
	return c.client.Close()
}
