package candle

import (
	"context"
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCacheKeyIncludesSymbolAndTimeframe(t *testing.T) {
	assert.Equal(t, "candle:EURUSD:M5", cacheKey("EURUSD", market.M5))
	assert.Equal(t, "candle:GBPUSD:H4", cacheKey("GBPUSD", market.H4))
}

// unreachableRedisClient returns a client pointed at a closed local port, so
// every command fails fast without requiring a live Redis in tests.
func unreachableRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

// TestCacheGetOnUnreachableClientIsAMissNotAnError exercises the cache-miss
// path without a live Redis: a client pointed at a closed port fails every
// command, which Get must fold into ok=false rather than surface as an error.
func TestCacheGetOnUnreachableClientIsAMissNotAnError(t *testing.T) {
	c := NewCache(unreachableRedisClient(t), time.Minute)
	w, ok := c.Get(context.Background(), "EURUSD", market.M1)
	assert.False(t, ok)
	assert.Equal(t, Window{}, w)
}
