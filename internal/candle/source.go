package candle

import (
	"context"
	"fmt"
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Source is C1's public entry point: Latest runs the three-tier fallback
// chain (streamer cache -> disk store -> broker fetch) and returns the
// first tier with a sufficiently fresh window, tagging the result with
// which tier actually served it (spec §4.4).
type Source struct {
	cache    *Cache
	store    *Store
	broker   Broker
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

// NewSource wires the three tiers together. limiter throttles the direct
// broker-fetch fallback (golang.org/x/time/rate, matching the teacher's
// internal/net/ratelimit token-bucket use); breaker wraps that same
// fallback so repeated broker failures trip open instead of being retried
// on every tick (sony/gobreaker, matching the teacher's infra/breakers).
func NewSource(cache *Cache, store *Store, broker Broker, limiter *rate.Limiter, breaker *gobreaker.CircuitBreaker) *Source {
	return &Source{cache: cache, store: store, broker: broker, limiter: limiter, breaker: breaker}
}

// Latest returns the freshest available window of at least n candles for
// symbol+timeframe, trying each tier in order and falling through on a
// miss or a stale result.
func (s *Source) Latest(ctx context.Context, symbol string, tf market.Timeframe, n int, now time.Time) (Result, error) {
	threshold := tf.FreshnessThreshold()

	if w, ok := s.cache.Get(ctx, symbol, tf); ok && len(w.Candles) >= n {
		age := w.Age(now)
		if age <= threshold {
			return Result{Window: w, Tier: TierStreamerCache, Age: age}, nil
		}
	}

	if candles, err := s.store.LatestCandles(ctx, symbol, tf, n); err == nil && len(candles) >= n {
		w := market.Window{Symbol: symbol, Timeframe: tf, Candles: candles}
		age := w.Age(now)
		if age <= threshold {
			_ = s.cache.Set(ctx, w)
			return Result{Window: w, Tier: TierDiskStore, Age: age}, nil
		}
	}

	return s.fetchFromBroker(ctx, symbol, tf, n, now)
}

// fetchFromBroker is the last-resort tier: no freshness gate applies here,
// since there is nowhere further to fall back to.
func (s *Source) fetchFromBroker(ctx context.Context, symbol string, tf market.Timeframe, n int, now time.Time) (Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("candle: rate limiter: %w", err)
	}

	raw, err := s.breaker.Execute(func() (any, error) {
		return s.broker.CopyRatesFromPos(ctx, symbol, tf, 0, n)
	})
	if err != nil {
		return Result{}, fmt.Errorf("candle: broker fetch: %w", err)
	}
	candles := raw.([]Candle)

	w := market.Window{Symbol: symbol, Timeframe: tf, Candles: candles}
	age := w.Age(now)
	_ = s.cache.Set(ctx, w)

	return Result{Window: w, Tier: TierBrokerFetch, Age: age}, nil
}
