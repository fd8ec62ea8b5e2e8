package cache

import (
	"context"
	"testing"
	"time"

	"demandcast/internal/domain/models"
)

func TestTTLCacheHit(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()
	want := &models.ForecastResponse{SKU: "GS-019", Horizon: 7}

	c.Set(ctx, "GS-019|7|global|2024-01-01", want, time.Minute)
	got, ok := c.Get(ctx, "GS-019|7|global|2024-01-01")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got != want {
		t.Fatalf("expected same stored value back")
	}
}

func TestTTLCacheMiss(t *testing.T) {
	c := NewTTLCache()
	if _, ok := c.Get(context.Background(), "absent"); ok {
		t.Fatalf("expected miss")
	}
}

func TestTTLCacheLazyExpiry(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()
	c.Set(ctx, "k", &models.ForecastResponse{SKU: "BL-101"}, time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected stale entry to be evicted on read")
	}
}

func TestTTLCacheOverwrite(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()
	c.Set(ctx, "k", &models.ForecastResponse{SKU: "old"}, time.Minute)
	c.Set(ctx, "k", &models.ForecastResponse{SKU: "new"}, time.Minute)

	got, ok := c.Get(ctx, "k")
	if !ok || got.SKU != "new" {
		t.Fatalf("expected overwritten entry, got %+v ok=%v", got, ok)
	}
}
