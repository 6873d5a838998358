package rangedetect

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(t time.Time, o, h, l, c, v float64) Candle {
	return Candle{Timestamp: t, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestBuildSessionRangeExtremes(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []Candle{
		bar(base, 100, 102, 99, 101, 10),
		bar(base.Add(time.Minute), 101, 105, 100, 104, 10),
		bar(base.Add(2*time.Minute), 104, 104.5, 97, 98, 10),
	}
	r := BuildSessionRange("BTCUSD", market.M5, candles)
	require.NotNil(t, r)
	assert.Equal(t, 105.0, r.High)
	assert.Equal(t, 97.0, r.Low)
	assert.Equal(t, KindSession, r.Kind)
}

func TestBuildDailyRangeEmptyReturnsNil(t *testing.T) {
	r := BuildDailyRange("BTCUSD", market.H1, nil)
	assert.Nil(t, r)
}

func TestCountTouchesCollapsesConsecutive(t *testing.T) {
	// tolerance = 0.2% * 105 = 0.21
	r := &RangeStructure{High: 105, Low: 95}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []Candle{
		bar(base, 100, 105.0, 99, 100, 10),                    // touch high, close bounces back
		bar(base.Add(time.Minute), 100, 105.05, 99, 100, 10),  // still touching high, same touch
		bar(base.Add(2*time.Minute), 100, 101, 99, 100, 10),   // leaves
		bar(base.Add(3*time.Minute), 100, 105.1, 99, 100, 10), // touches again: second touch
	}
	th, tl := CountTouches(r, candles)
	assert.Equal(t, 2, th)
	assert.Equal(t, 0, tl)
}

func TestCountTouchesIgnoresBreakoutBar(t *testing.T) {
	r := &RangeStructure{High: 105, Low: 95}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []Candle{
		// high clears the boundary well beyond tolerance and close stays out: a
		// breakout, not a touch.
		bar(base, 100, 108, 99, 107, 10),
	}
	th, tl := CountTouches(r, candles)
	assert.Equal(t, 0, th)
	assert.Equal(t, 0, tl)
}

func TestApplyExpansionFlagsOnGrowth(t *testing.T) {
	r := &RangeStructure{}
	ApplyExpansion(r, 5.0, 2.0)
	assert.True(t, r.Expanding)

	r2 := &RangeStructure{}
	ApplyExpansion(r2, 2.1, 2.0)
	assert.False(t, r2.Expanding)
}

func TestApplyNestingKeepsOnlyFinerContained(t *testing.T) {
	parent := &RangeStructure{Timeframe: market.H1, High: 110, Low: 90}
	childFits := &RangeStructure{Timeframe: market.M15, High: 105, Low: 95}
	childOutside := &RangeStructure{Timeframe: market.M15, High: 120, Low: 95}
	childCoarser := &RangeStructure{Timeframe: market.H4, High: 105, Low: 95}

	ApplyNesting(parent, []*RangeStructure{childFits, childOutside, childCoarser})
	require.Len(t, parent.Nested, 1)
	assert.Same(t, childFits, parent.Nested[0])
}

func TestInvalidationRequiresTwoFlags(t *testing.T) {
	r := &RangeStructure{Valid: true, Expanding: false, High: 105, Low: 95}
	flags := ApplyInvalidation(r, 10, time.Now(), 2.0)
	assert.False(t, r.Invalidated)
	assert.Equal(t, 0, flags.Count())

	r2 := &RangeStructure{Valid: false, Expanding: true, High: 105, Low: 95}
	flags2 := ApplyInvalidation(r2, 10, time.Now(), 2.0)
	assert.True(t, r2.Invalidated)
	assert.GreaterOrEqual(t, flags2.Count(), 2)
	assert.NotEmpty(t, r2.InvalidReason)
}

func TestDetectFalseRangeRequiresTouchesAndDivergence(t *testing.T) {
	r := &RangeStructure{TouchesHigh: 1, TouchesLow: 0}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []Candle{bar(base, 100, 101, 99, 100, 10)}
	fr := DetectFalseRange(r, candles)
	assert.False(t, fr.Found)
}

func TestCVDDivergenceStrengthBounded(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, 20)
	for i := range candles {
		t := base.Add(time.Duration(i) * time.Minute)
		// Flat-to-down price but every candle closes near its high (buying
		// absorption into a falling range) -> bullish divergence.
		price := 100.0 - float64(i)*0.01
		candles[i] = bar(t, price, price+0.5, price-0.1, price+0.45, 10)
	}
	strength := CVDDivergenceStrength(candles)
	assert.GreaterOrEqual(t, strength, -1.0)
	assert.LessOrEqual(t, strength, 1.0)
}
