package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkoval/chronos/internal/core"
)

func cacheWindow(offset int) (time.Time, time.Time) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return start, start.AddDate(0, 0, 1)
}

func TestCache_ReadThrough(t *testing.T) {
	inner := &mockCollector{name: "mock", bars: []core.Bar{{Close: 100}, {Close: 101}}}
	cache := NewCache(inner, 10)

	start, end := cacheWindow(0)
	ctx := context.Background()

	first, err := cache.FetchBars(ctx, "BTCUSDT", start, end, "1h")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.FetchBars(ctx, "BTCUSDT", start, end, "1h")
	if err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Errorf("inner collector called %d times, want 1", inner.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("bar counts = %d, %d, want 2, 2", len(first), len(second))
	}

	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses, want 1, 1", hits, misses)
	}
}

func TestCache_DistinctRangesMiss(t *testing.T) {
	inner := &mockCollector{name: "mock", bars: []core.Bar{{Close: 100}}}
	cache := NewCache(inner, 10)

	ctx := context.Background()
	s1, e1 := cacheWindow(0)
	s2, e2 := cacheWindow(1)

	cache.FetchBars(ctx, "BTCUSDT", s1, e1, "1h")
	cache.FetchBars(ctx, "BTCUSDT", s2, e2, "1h")
	cache.FetchBars(ctx, "ETHUSDT", s1, e1, "1h")
	cache.FetchBars(ctx, "BTCUSDT", s1, e1, "1d")

	if inner.calls != 4 {
		t.Errorf("inner collector called %d times, want 4", inner.calls)
	}
}

func TestCache_ErrorsNotCached(t *testing.T) {
	inner := &mockCollector{name: "mock", err: errors.New("upstream down")}
	cache := NewCache(inner, 10)

	ctx := context.Background()
	start, end := cacheWindow(0)

	if _, err := cache.FetchBars(ctx, "BTCUSDT", start, end, "1h"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := cache.FetchBars(ctx, "BTCUSDT", start, end, "1h"); err == nil {
		t.Fatal("expected error")
	}

	if inner.calls != 2 {
		t.Errorf("inner collector called %d times, want 2 (errors must not be cached)", inner.calls)
	}
}

func TestCache_EmptyResultsNotCached(t *testing.T) {
	inner := &mockCollector{name: "mock"}
	cache := NewCache(inner, 10)

	ctx := context.Background()
	start, end := cacheWindow(0)

	cache.FetchBars(ctx, "BTCUSDT", start, end, "1h")
	cache.FetchBars(ctx, "BTCUSDT", start, end, "1h")

	if inner.calls != 2 {
		t.Errorf("inner collector called %d times, want 2", inner.calls)
	}
	if cache.Len() != 0 {
		t.Errorf("cache holds %d entries, want 0", cache.Len())
	}
}

func TestCache_EvictsOldestFirst(t *testing.T) {
	inner := &mockCollector{name: "mock", bars: []core.Bar{{Close: 100}}}
	cache := NewCache(inner, 2)

	ctx := context.Background()
	s1, e1 := cacheWindow(0)
	s2, e2 := cacheWindow(1)
	s3, e3 := cacheWindow(2)

	cache.FetchBars(ctx, "BTCUSDT", s1, e1, "1h")
	cache.FetchBars(ctx, "BTCUSDT", s2, e2, "1h")
	cache.FetchBars(ctx, "BTCUSDT", s3, e3, "1h") // evicts the first range

	if cache.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", cache.Len())
	}

	calls := inner.calls
	cache.FetchBars(ctx, "BTCUSDT", s1, e1, "1h")
	if inner.calls != calls+1 {
		t.Error("evicted range should be fetched again")
	}

	cache.FetchBars(ctx, "BTCUSDT", s3, e3, "1h")
	if inner.calls != calls+1 {
		t.Error("recent range should still be cached")
	}
}

func TestCache_DelegatesMetadata(t *testing.T) {
	inner := &mockCollector{name: "mock"}
	cache := NewCache(inner, 0)

	if cache.Name() != "mock" {
		t.Errorf("Name() = %s, want mock", cache.Name())
	}
	if err := cache.Init(Config{Enabled: true}); err != nil {
		t.Errorf("Init() error = %v", err)
	}
}
