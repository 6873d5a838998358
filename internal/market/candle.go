// Package market defines the candle and timeframe primitives shared by every
// detector, filter, and strategy in the range-scalping engine. Nothing in
// this package performs I/O; it is the leaf of the dependency graph.
package market

import "time"

// Timeframe is one of the six bar intervals the engine reasons about. The
// zero value is invalid; use the named constants.
type Timeframe string

const (
	M1  Timeframe = "M1"
	M5  Timeframe = "M5"
	M15 Timeframe = "M15"
	M30 Timeframe = "M30"
	H1  Timeframe = "H1"
	H4  Timeframe = "H4"
)

// timeframeOrder gives the total order M1 < M5 < M15 < M30 < H1 < H4.
var timeframeOrder = map[Timeframe]int{
	M1: 0, M5: 1, M15: 2, M30: 3, H1: 4, H4: 5,
}

// Less reports whether tf sorts before other in the timeframe total order.
func (tf Timeframe) Less(other Timeframe) bool {
	return timeframeOrder[tf] < timeframeOrder[other]
}

// Period returns the bar duration implied by the timeframe.
func (tf Timeframe) Period() time.Duration {
	switch tf {
	case M1:
		return time.Minute
	case M5:
		return 5 * time.Minute
	case M15:
		return 15 * time.Minute
	case M30:
		return 30 * time.Minute
	case H1:
		return time.Hour
	case H4:
		return 4 * time.Hour
	default:
		return 0
	}
}

// FreshnessThreshold is the period plus 0.5 minute tolerance used by the
// data-quality filter (spec §4.4): e.g. M5 -> 5.5 minutes.
func (tf Timeframe) FreshnessThreshold() time.Duration {
	return tf.Period() + 30*time.Second
}

// Candle is a single completed OHLCV bar. Timestamp is the bar's open time,
// aligned to its timeframe, in UTC.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Valid reports whether the candle satisfies the OHLCV invariants:
// low <= min(open,close) <= max(open,close) <= high, volume >= 0.
func (c Candle) Valid() bool {
	if c.Volume < 0 {
		return false
	}
	lo, hi := c.Open, c.Close
	if lo > hi {
		lo, hi = hi, lo
	}
	return c.Low <= lo && hi <= c.High
}

// TypicalPrice returns (high+low+close)/3, the VWAP/footprint input price.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3.0
}

// Body returns the absolute open-to-close body size.
func (c Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Window is an ordered, oldest-first sequence of candles for a fixed
// symbol+timeframe. It is never mutated in place; detectors only take
// slices/views of it.
type Window struct {
	Symbol    string
	Timeframe Timeframe
	Candles   []Candle
}

// Len returns the number of candles in the window.
func (w Window) Len() int { return len(w.Candles) }

// Last returns the most recent n candles (or fewer if the window is
// shorter), oldest-first. n <= 0 returns the full window.
func (w Window) Last(n int) []Candle {
	if n <= 0 || n >= len(w.Candles) {
		return w.Candles
	}
	return w.Candles[len(w.Candles)-n:]
}

// LatestClose returns the close of the most recent candle, or 0 if empty.
func (w Window) LatestClose() float64 {
	if len(w.Candles) == 0 {
		return 0
	}
	return w.Candles[len(w.Candles)-1].Close
}

// Age returns how old the most recent candle is relative to now.
func (w Window) Age(now time.Time) time.Duration {
	if len(w.Candles) == 0 {
		return time.Duration(1<<63 - 1)
	}
	latest := w.Candles[len(w.Candles)-1]
	return now.Sub(latest.Timestamp.Add(w.Timeframe.Period()))
}
