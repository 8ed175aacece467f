package cache

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestToRanked(t *testing.T) {
	got := toRanked([]redis.Z{
		{Score: 12, Member: "4"},
		{Score: 3, Member: "not-a-number"},
		{Score: 2, Member: 9},
		{Score: 1, Member: "1"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 ranked products, got %d: %+v", len(got), got)
	}
	if got[0] != (RankedProduct{ProductID: 4, Units: 12}) || got[1] != (RankedProduct{ProductID: 1, Units: 1}) {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}

func TestProductCache_Key(t *testing.T) {
	c := NewProductCache(nil)
	if k := c.key(15); k != "producto:15" {
		t.Fatalf("unexpected key %q", k)
	}
}

// Skipped unless REDIS_URL is set.
func TestProductCacheIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()
	pc := NewProductCache(rc)
	want := &CachedProduct{ID: 991, Name: "Mouse", Price: "2499.00", Brand: "Logitech", Active: true}

	t.Run("Set_Get", func(t *testing.T) {
		if err := pc.Set(ctx, want); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, err := pc.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if *got != *want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("Delete_Miss", func(t *testing.T) {
		if err := pc.Delete(ctx, want.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := pc.Get(ctx, want.ID); !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil, got %v", err)
		}
	})

	t.Run("BestSellers", func(t *testing.T) {
		bs := NewBestSellers(rc)
		_ = rc.Client().Del(ctx, bestSellersKey).Err()
		if err := bs.Record(ctx, map[int64]int64{1: 2, 2: 5}); err != nil {
			t.Fatalf("record: %v", err)
		}
		top, err := bs.Top(ctx, 1)
		if err != nil {
			t.Fatalf("top: %v", err)
		}
		if len(top) != 1 || top[0].ProductID != 2 || top[0].Units != 5 {
			t.Fatalf("unexpected top: %+v", top)
		}
	})

	t.Run("RecordOnce_SkipsRedelivery", func(t *testing.T) {
		bs := NewBestSellers(rc)
		_ = rc.Client().Del(ctx, bestSellersKey, recordedEventKey+"evt-1").Err()
		for i, want := range []bool{true, false} {
			recorded, err := bs.RecordOnce(ctx, "evt-1", map[int64]int64{7: 3})
			if err != nil {
				t.Fatalf("delivery %d: %v", i, err)
			}
			if recorded != want {
				t.Fatalf("delivery %d: recorded = %v, want %v", i, recorded, want)
			}
		}
		top, err := bs.Top(ctx, 1)
		if err != nil {
			t.Fatalf("top: %v", err)
		}
		if len(top) != 1 || top[0].Units != 3 {
			t.Fatalf("event counted more than once: %+v", top)
		}
	})
}
