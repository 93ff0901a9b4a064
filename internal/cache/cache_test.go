// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/gridwatch/internal/metrics"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New("test-basic", time.Minute, nil)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New("test-expiry", 100*time.Millisecond, clock)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	clock.Advance(150 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", c.Len())
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New("test-ttl", time.Hour, clock)

	c.SetWithTTL("short", 1, time.Second)
	c.Set("long", 2)

	clock.Advance(2 * time.Second)

	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry survived its TTL")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default-TTL entry expired early")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New("test-clear", time.Minute, nil)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Delete("key1")
	c.Delete("missing")
	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be deleted")
	}

	c.Clear()
	for _, key := range []string{"key2", "key3"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("Expected %s to be cleared", key)
		}
	}

	stats := c.GetStats()
	if stats.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3", stats.Evictions)
	}
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0", stats.TotalKeys)
	}
}

func TestCacheStats(t *testing.T) {
	c := New("test-stats", time.Minute, nil)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	hitRate := c.HitRate()
	expectedHitRate := 66.66666666666667 // 2/3 * 100
	if hitRate < expectedHitRate-0.01 || hitRate > expectedHitRate+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", expectedHitRate, hitRate)
	}

	if got := New("test-stats-empty", time.Minute, nil).HitRate(); got != 0 {
		t.Errorf("HitRate() with no lookups = %v, want 0", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	c := New("test-metrics", time.Minute, nil)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Get("zzz")

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("test-metrics")); got != 1 {
		t.Errorf("cache_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("test-metrics")); got != 1 {
		t.Errorf("cache_misses_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheSize.WithLabelValues("test-metrics")); got != 2 {
		t.Errorf("cache_entries = %v, want 2", got)
	}
}

func TestCacheServeSweepsExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New("test-serve", time.Minute, clock)

	c.Set("old", 1)
	c.SetWithTTL("fresh", 2, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker never registered: %v", err)
	}
	clock.Advance(DefaultCleanupInterval)

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 1 {
		t.Errorf("Len() after sweep = %d, want 1", c.Len())
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestGenerateKey(t *testing.T) {
	params1 := map[string]interface{}{"street": "Main St", "start": "07:00:00"}
	params2 := map[string]interface{}{"street": "Main St", "start": "07:00:00"}
	params3 := map[string]interface{}{"street": "Oak Ave", "start": "07:00:00"}

	key1 := GenerateKey("detailed", params1)
	key2 := GenerateKey("detailed", params2)
	key3 := GenerateKey("detailed", params3)

	if key1 != key2 {
		t.Error("Expected identical params to generate same key")
	}
	if key1 == key3 {
		t.Error("Expected different params to generate different keys")
	}
	if !strings.HasPrefix(key1, "detailed:") {
		t.Errorf("key %q lacks prefix", key1)
	}
	// 16 hash bytes in hex
	if len(key1) != len("detailed:")+32 {
		t.Errorf("key %q has unexpected length", key1)
	}
}

func TestGenerateKeyUnmarshalable(t *testing.T) {
	key := GenerateKey("prefix", make(chan int))
	if !strings.HasPrefix(key, "prefix:") {
		t.Errorf("fallback key %q lacks prefix", key)
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New("test-concurrency", time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", n, j)
				c.Set(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 20*90 {
		t.Errorf("Len() = %d, want %d", c.Len(), 20*90)
	}
}

func BenchmarkGenerateKey(b *testing.B) {
	params := map[string]interface{}{"street": "Main St", "start": "07:00:00", "end": "09:00:00"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateKey("detailed", params)
	}
}
