package candle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func freshWindow(now time.Time, n int) market.Window {
	candles := make([]market.Candle, n)
	ts := now.Add(-time.Duration(n) * market.M1.Period())
	for i := 0; i < n; i++ {
		ts = ts.Add(market.M1.Period())
		candles[i] = market.Candle{Timestamp: ts, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}
	}
	return market.Window{Symbol: "EURUSD", Timeframe: market.M1, Candles: candles}
}

func newTestSource(t *testing.T, broker Broker) *Source {
	t.Helper()
	cache := NewCache(unreachableRedisClient(t), time.Minute)
	store, _ := newMockStore(t) // no expectations set, so any query errors out and Source falls through
	limiter := rate.NewLimiter(rate.Inf, 1)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "candle-test"})
	return NewSource(cache, store, broker, limiter, breaker)
}

func TestSourceFallsThroughToBrokerWhenCacheAndStoreMiss(t *testing.T) {
	now := time.Now()
	broker := &nilBroker{candles: freshWindow(now, 5).Candles}
	src := newTestSource(t, broker)

	result, err := src.Latest(context.Background(), "EURUSD", market.M1, 5, now)
	require.NoError(t, err)
	assert.Equal(t, TierBrokerFetch, result.Tier)
	assert.Len(t, result.Window.Candles, 5)
}

func TestSourcePropagatesBrokerError(t *testing.T) {
	broker := &nilBroker{err: errors.New("broker unreachable")}
	src := newTestSource(t, broker)

	_, err := src.Latest(context.Background(), "EURUSD", market.M1, 5, time.Now())
	assert.Error(t, err)
}
