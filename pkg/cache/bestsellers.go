package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	bestSellersKey   = "catalog:bestsellers"
	recordedEventKey = "catalog:bestsellers:event:"
	recordedEventTTL = 7 * 24 * time.Hour
)

// RankedProduct is one entry of the best-seller ranking.
type RankedProduct struct {
	ProductID int64
	Units     int64
}

// BestSellers keeps a sorted set of units sold per product. The worker feeds
// it from order.placed events and the admin dashboard reads it.
type BestSellers struct {
	client *RedisClient
}

// NewBestSellers creates a ranking backed by the given RedisClient.
func NewBestSellers(r *RedisClient) *BestSellers {
	return &BestSellers{client: r}
}

// Record adds units sold for each product in one pipeline.
func (b *BestSellers) Record(ctx context.Context, unitsByProduct map[int64]int64) error {
	if len(unitsByProduct) == 0 {
		return nil
	}
	pipe := b.client.Client().Pipeline()
	for id, units := range unitsByProduct {
		pipe.ZIncrBy(ctx, bestSellersKey, float64(units), strconv.FormatInt(id, 10))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record best sellers: %w", err)
	}
	return nil
}

// RecordOnce records the units of one order event. A redelivered event is
// skipped. If recording fails the marker is dropped so a retry can count it.
func (b *BestSellers) RecordOnce(ctx context.Context, eventID string, unitsByProduct map[int64]int64) (bool, error) {
	key := recordedEventKey + eventID
	first, err := b.client.Client().SetNX(ctx, key, 1, recordedEventTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark event %s: %w", eventID, err)
	}
	if !first {
		return false, nil
	}
	if err := b.Record(ctx, unitsByProduct); err != nil {
		_ = b.client.Client().Del(ctx, key).Err()
		return false, err
	}
	return true, nil
}

// Top returns the n best-selling products, highest first.
func (b *BestSellers) Top(ctx context.Context, n int) ([]RankedProduct, error) {
	if n <= 0 {
		return nil, nil
	}
	entries, err := b.client.Client().ZRevRangeWithScores(ctx, bestSellersKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top best sellers: %w", err)
	}
	return toRanked(entries), nil
}

func toRanked(entries []redis.Z) []RankedProduct {
	out := make([]RankedProduct, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, RankedProduct{ProductID: id, Units: int64(z.Score)})
	}
	return out
}
