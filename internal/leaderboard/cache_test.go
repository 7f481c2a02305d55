package leaderboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingRanker struct {
	entries []Entry
	calls   int
}

func (r *countingRanker) TopForDay(ctx context.Context, day, limit int) ([]Entry, error) {
	r.calls++
	if len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func sampleEntries() []Entry {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return []Entry{
		{UserID: "u1", DisplayName: "Ada", CompletedAt: base, Attempts: 1, Rank: 1},
		{UserID: "u2", DisplayName: "Grace", CompletedAt: base.Add(time.Minute), Attempts: 3, Rank: 2},
	}
}

func newTestCache(t *testing.T, ranker Ranker) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, ranker, time.Minute), mr
}

func TestCacheReadThrough(t *testing.T) {
	ranker := &countingRanker{entries: sampleEntries()}
	cache, _ := newTestCache(t, ranker)

	entries, err := cache.TopForDay(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "u1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if ranker.calls != 1 {
		t.Fatalf("expected one store read, got %d", ranker.calls)
	}

	// Second read hits the cache.
	if _, err := cache.TopForDay(context.Background(), 3, 10); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if ranker.calls != 1 {
		t.Fatalf("expected cache hit, store reads=%d", ranker.calls)
	}
}

func TestCacheClipsToRequestedLimit(t *testing.T) {
	ranker := &countingRanker{entries: sampleEntries()}
	cache, _ := newTestCache(t, ranker)

	entries, err := cache.TopForDay(context.Background(), 3, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank != 1 {
		t.Fatalf("expected top entry only, got %+v", entries)
	}
}

func TestCacheExpiry(t *testing.T) {
	ranker := &countingRanker{entries: sampleEntries()}
	cache, mr := newTestCache(t, ranker)

	if _, err := cache.TopForDay(context.Background(), 3, 10); err != nil {
		t.Fatalf("read: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.TopForDay(context.Background(), 3, 10); err != nil {
		t.Fatalf("read after expiry: %v", err)
	}
	if ranker.calls != 2 {
		t.Fatalf("expected reload after TTL, store reads=%d", ranker.calls)
	}
}

func TestCacheInvalidate(t *testing.T) {
	ranker := &countingRanker{entries: sampleEntries()}
	cache, _ := newTestCache(t, ranker)

	if _, err := cache.TopForDay(context.Background(), 3, 10); err != nil {
		t.Fatalf("read: %v", err)
	}
	cache.Invalidate(context.Background(), 3)

	if _, err := cache.TopForDay(context.Background(), 3, 10); err != nil {
		t.Fatalf("read after invalidation: %v", err)
	}
	if ranker.calls != 2 {
		t.Fatalf("expected reload after invalidation, store reads=%d", ranker.calls)
	}
}

func TestNilClientPassesThrough(t *testing.T) {
	ranker := &countingRanker{entries: sampleEntries()}
	cache := NewCache(nil, ranker, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cache.TopForDay(context.Background(), 3, 10); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
	if ranker.calls != 3 {
		t.Fatalf("nil client must bypass caching, store reads=%d", ranker.calls)
	}
}
