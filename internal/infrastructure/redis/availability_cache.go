package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は上映回ごとの空き座席数キャッシュを管理する
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount は上映回の空き座席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, showtimeID int64) (int, error) {
	key := c.availableCountKey(showtimeID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は上映回の空き座席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, showtimeID int64, count int, ttl time.Duration) error {
	key := c.availableCountKey(showtimeID)
	err := c.client.Set(ctx, key, count, ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は上映回のキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, showtimeID int64) error {
	key := c.availableCountKey(showtimeID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) availableCountKey(showtimeID int64) string {
	return fmt.Sprintf("showtimes:available:%d", showtimeID)
}
