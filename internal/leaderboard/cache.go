package leaderboard

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Ranker produces the ranked finishers for one day.
type Ranker interface {
	TopForDay(ctx context.Context, day, limit int) ([]Entry, error)
}

// Cache is a read-through Redis cache over a Ranker. A nil client disables
// caching and every read goes straight to the backing store.
type Cache struct {
	client *redis.Client
	ranker Ranker
	ttl    time.Duration
	sf     singleflight.Group
}

func NewCache(client *redis.Client, ranker Ranker, ttl time.Duration) *Cache {
	return &Cache{client: client, ranker: ranker, ttl: ttl}
}

func (c *Cache) TopForDay(ctx context.Context, day, limit int) ([]Entry, error) {
	if c.client == nil {
		return c.ranker.TopForDay(ctx, day, limit)
	}

	key := cacheKey(day)
	if entries, ok := c.get(ctx, key); ok {
		return clip(entries, limit), nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another request filled the key.
		if entries, ok := c.get(ctx, key); ok {
			return entries, nil
		}
		entries, err := c.ranker.TopForDay(ctx, day, maxEntries)
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return clip(result.([]Entry), limit), nil
}

// Invalidate drops the cached ranking for a day. Called after completions.
func (c *Cache) Invalidate(ctx context.Context, day int) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(day)).Err(); err != nil {
		log.Warn().Err(err).Int("day", day).Msg("leaderboard cache invalidation failed")
	}
}

func (c *Cache) get(ctx context.Context, key string) ([]Entry, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *Cache) set(ctx context.Context, key string, entries []Entry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("leaderboard cache write failed")
	}
}

func cacheKey(day int) string {
	return "leaderboard:day:" + strconv.Itoa(day)
}

func clip(entries []Entry, limit int) []Entry {
	if limit < 1 || limit > maxEntries {
		limit = maxEntries
	}
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
