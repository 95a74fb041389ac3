package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// BasketCacheTTL is the time-to-live for cached basket summaries.
	BasketCacheTTL = 1 * time.Hour

	basketCacheKeyPrefix = "basket"
)

// CachedBasket is the denormalized basket summary stored in Redis. Amounts
// travel as decimal strings so no float rounding sneaks in on the read path.
type CachedBasket struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	HasCoupon   bool      `json:"has_coupon"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BasketCache provides structured read/write operations for basket summary
// entries. Key format: "basket:{basketID}".
type BasketCache struct {
	client *RedisClient
}

// NewBasketCache creates a BasketCache backed by the given RedisClient.
func NewBasketCache(r *RedisClient) *BasketCache {
	return &BasketCache{client: r}
}

// Get retrieves a cached basket summary.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *BasketCache) Get(ctx context.Context, basketID uuid.UUID) (*CachedBasket, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(basketID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	customerID, err := uuid.Parse(vals["customer_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse customer_id: %w", err)
	}
	itemCount, err := strconv.Atoi(vals["item_count"])
	if err != nil {
		return nil, fmt.Errorf("cache parse item_count: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	return &CachedBasket{
		ID:          id,
		CustomerID:  customerID,
		TotalAmount: vals["total_amount"],
		ItemCount:   itemCount,
		HasCoupon:   vals["has_coupon"] == "1",
		UpdatedAt:   updatedAt,
	}, nil
}

// Set writes a basket summary as a Redis hash with a one-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *BasketCache) Set(ctx context.Context, b *CachedBasket) error {
	hasCoupon := "0"
	if b.HasCoupon {
		hasCoupon = "1"
	}
	key := c.key(b.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", b.ID.String(),
		"customer_id", b.CustomerID.String(),
		"total_amount", b.TotalAmount,
		"item_count", strconv.Itoa(b.ItemCount),
		"has_coupon", hasCoupon,
		"updated_at", b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, BasketCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached basket summary.
func (c *BasketCache) Delete(ctx context.Context, basketID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(basketID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "basket:{basketID}"
func (c *BasketCache) key(basketID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", basketCacheKeyPrefix, basketID)
}
