package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/meenmo/swapval/swap/market"
)

// DefaultFixingTTL bounds how long cached fixings are served. Published
// fixings are occasionally restated, so the cache must expire.
const DefaultFixingTTL = 24 * time.Hour

// fixingRecord is the Redis JSON payload for one fixing.
type fixingRecord struct {
	Index string `json:"index"`
	Date  string `json:"date"`
	Rate  string `json:"rate"`
}

// RedisFixingCache is a read-through fixing cache in front of a FixingStore.
// Misses fall through to the backing store and populate the cache; writes go
// to both.
type RedisFixingCache struct {
	client *redis.Client
	store  FixingStore
	ttl    time.Duration
}

var _ FixingStore = (*RedisFixingCache)(nil)

// NewRedisFixingCache connects to Redis and wraps the backing store.
func NewRedisFixingCache(ctx context.Context, addr string, store FixingStore, ttl time.Duration) (*RedisFixingCache, error) {
	if ttl <= 0 {
		ttl = DefaultFixingTTL
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisFixingCache{client: client, store: store, ttl: ttl}, nil
}

// Close releases the Redis connection.
func (c *RedisFixingCache) Close() error {
	return c.client.Close()
}

func redisFixingKey(index market.ReferenceIndex, date time.Time) string {
	return "fixing:" + string(index) + ":" + date.Format("2006-01-02")
}

// Fixing serves from Redis when present, falling back to the backing store.
// Cache failures degrade to the backing store rather than failing the read.
func (c *RedisFixingCache) Fixing(ctx context.Context, index market.ReferenceIndex, date time.Time) (Fixing, error) {
	data, err := c.client.Get(ctx, redisFixingKey(index, date)).Bytes()
	if err == nil {
		if fx, decodeErr := decodeFixing(data); decodeErr == nil {
			return fx, nil
		}
	}

	fx, err := c.store.Fixing(ctx, index, date)
	if err != nil {
		return Fixing{}, err
	}
	c.put(ctx, fx)
	return fx, nil
}

// SaveFixing writes through to the backing store and refreshes the cache.
func (c *RedisFixingCache) SaveFixing(ctx context.Context, fixing Fixing) error {
	if err := c.store.SaveFixing(ctx, fixing); err != nil {
		return err
	}
	c.put(ctx, fixing)
	return nil
}

func (c *RedisFixingCache) put(ctx context.Context, fx Fixing) {
	data, err := encodeFixing(fx)
	if err != nil {
		return
	}
	// Best effort: a failed cache write only costs the next read a store hit.
	c.client.Set(ctx, redisFixingKey(fx.Index, fx.Date), data, c.ttl)
}

func encodeFixing(fx Fixing) ([]byte, error) {
	return json.Marshal(fixingRecord{
		Index: string(fx.Index),
		Date:  fx.Date.Format("2006-01-02"),
		Rate:  fx.Rate.String(),
	})
}

func decodeFixing(data []byte) (Fixing, error) {
	var rec fixingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Fixing{}, fmt.Errorf("unmarshal fixing: %w", err)
	}
	date, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return Fixing{}, fmt.Errorf("parse fixing date: %w", err)
	}
	rate, err := decimal.NewFromString(rec.Rate)
	if err != nil {
		return Fixing{}, fmt.Errorf("parse fixing rate: %w", err)
	}
	return Fixing{Index: market.ReferenceIndex(rec.Index), Date: date, Rate: rate}, nil
}
