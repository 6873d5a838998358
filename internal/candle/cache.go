package candle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/redis/go-redis/v9"
)

// Cache is the streamer-cache tier: a short-TTL Redis cache of the latest
// candle window per symbol:timeframe, kept warm by the websocket
// push-refresh path (spec §4.4's first fallback).
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps an already-constructed redis.Client with a fixed TTL for
// cached windows.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(symbol string, tf market.Timeframe) string {
	return fmt.Sprintf("candle:%s:%s", symbol, tf)
}

// Get returns the cached window for symbol+timeframe, or ok=false on a
// cache miss (including any Redis error, which this tier treats as a miss
// rather than propagating — a cold cache just falls through to the next
// tier).
func (c *Cache) Get(ctx context.Context, symbol string, tf market.Timeframe) (Window, bool) {
	data, err := c.client.Get(ctx, cacheKey(symbol, tf)).Bytes()
	if err != nil {
		return Window{}, false
	}
	var w Window
	if err := json.Unmarshal(data, &w); err != nil {
		return Window{}, false
	}
	return w, true
}

// Set stores w under symbol+timeframe with the cache's configured TTL.
func (c *Cache) Set(ctx context.Context, w Window) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("candle: marshal window for cache: %w", err)
	}
	return c.client.Set(ctx, cacheKey(w.Symbol, w.Timeframe), data, c.ttl).Err()
}
