// Package statscache is a redis read-through cache for notebook
// aggregates. It is an optimization only: every method degrades to a
// miss or a no-op when redis is absent or failing, and note writes
// invalidate eagerly so stale windows stay within the TTL.
package statscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collabnote-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notebook:stats:"

type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New accepts a nil client; the cache then behaves as a permanent miss.
func New(rdb *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func key(notebookId uuid.UUID) string {
	return fmt.Sprintf("%s%s", keyPrefix, notebookId)
}

func (c *StatsCache) Get(ctx context.Context, notebookId uuid.UUID) (*entity.NotebookStats, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key(notebookId)).Bytes()
	if err != nil {
		return nil, false
	}

	var stats entity.NotebookStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, notebookId uuid.UUID, stats *entity.NotebookStats) {
	if c == nil || c.rdb == nil || stats == nil {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key(notebookId), data, c.ttl)
}

func (c *StatsCache) Invalidate(ctx context.Context, notebookId uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, key(notebookId))
}
