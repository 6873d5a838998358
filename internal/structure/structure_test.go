package structure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(t time.Time, o, h, l, c, v float64) Candle {
	return Candle{Timestamp: t, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestWickAsymmetryRange(t *testing.T) {
	cases := []Candle{
		bar(time.Now(), 100, 110, 90, 100, 1),
		bar(time.Now(), 100, 100.2, 80, 100, 1),
		bar(time.Now(), 100, 120, 99.8, 100, 1),
		bar(time.Now(), 100, 100, 100, 100, 1),
	}
	for _, c := range cases {
		wa := WickAsymmetry(c)
		assert.GreaterOrEqual(t, wa, -1.0)
		assert.LessOrEqual(t, wa, 1.0)
	}
	assert.Equal(t, 0.0, WickAsymmetry(bar(time.Now(), 100, 100, 100, 100, 1)))
}

func TestDynamicRangeSwingDetectionScenario(t *testing.T) {
	// Seeded scenario from spec §8.1: swing highs at bars (3,7,12) priced
	// {100.0, 100.1, 99.9}; swing lows {95.0, 95.1, 94.95}; ATR=2.0.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, 16)
	for i := range candles {
		candles[i] = bar(base.Add(time.Duration(i)*time.Minute), 97, 97.5, 96.5, 97, 10)
	}
	candles[3] = bar(base.Add(3*time.Minute), 99.5, 100.0, 99.0, 99.5, 10)
	candles[7] = bar(base.Add(7*time.Minute), 99.6, 100.1, 99.1, 99.6, 10)
	candles[12] = bar(base.Add(12*time.Minute), 99.4, 99.9, 98.9, 99.4, 10)
	candles[0] = bar(base, 95.5, 96.0, 95.0, 95.5, 10)
	candles[1] = bar(base.Add(1*time.Minute), 95.6, 96.1, 95.1, 95.6, 10)
	candles[5] = bar(base.Add(5*time.Minute), 95.45, 95.95, 94.95, 95.45, 10)

	swings := DetectSwings(candles)
	require.NotEmpty(t, swings)
	sh, ok := LastSwingHigh(swings)
	assert.True(t, ok)
	assert.Greater(t, sh.Price, 99.0)
}

func TestBOSValidityBreakInsideRange(t *testing.T) {
	bos := BOSCHOCH{HasBreak: true, BreakLevel: 100}
	rangeLow, rangeHigh := 95.0, 105.0
	breakInside := bos.HasBreak && bos.BreakLevel > rangeLow && bos.BreakLevel < rangeHigh
	assert.True(t, breakInside)
}

func TestFVGRequiresMinimumWidth(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, 5)
	for i := range candles {
		candles[i] = bar(base.Add(time.Duration(i)*time.Minute), 100, 100.5, 99.5, 100, 10)
	}
	// bullish gap: low[1] > high[3]
	candles[1] = bar(base.Add(1*time.Minute), 101, 101.5, 101.0, 101.2, 10)
	candles[3] = bar(base.Add(3*time.Minute), 99.0, 99.5, 98.5, 99.2, 10)

	gap := DetectFVG(candles, 2.0)
	if gap.Found {
		assert.GreaterOrEqual(t, gap.WidthATR, 0.1)
	}
}

func TestSweepDetectionScenario(t *testing.T) {
	// Seeded scenario from spec §8.2: swing high 105 at bar 5, bar 6 has
	// high=106.5, close=104.0, volume=1.6x mean.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, 21)
	for i := 0; i < 20; i++ {
		candles[i] = bar(base.Add(time.Duration(i)*time.Minute), 100, 101, 99, 100, 10)
	}
	candles[5] = bar(base.Add(5*time.Minute), 104, 105, 103, 104, 10)
	candles[20] = bar(base.Add(20*time.Minute), 104.5, 106.5, 104.0, 104.0, 16)

	res := DetectAndValidateSweep(candles, 2.0)
	assert.True(t, res.Bullish)
	assert.InDelta(t, 0.75, res.Depth, 0.05)
}

func TestLiquidityClusterRequiresTwoTouches(t *testing.T) {
	swings := []Swing{
		{Index: 1, Price: 100.0, Kind: SwingHigh},
	}
	cluster := DetectEqualLevels(swings, SwingHigh, 2.0, 10)
	assert.False(t, cluster.Found)
}

func TestVolumeFootprintInactiveBelowWindow(t *testing.T) {
	candles := []Candle{bar(time.Now(), 100, 101, 99, 100, 10)}
	fp := RollingVolumeFootprint(candles, 100, 4)
	assert.False(t, fp.Active)
	assert.Equal(t, 50, fp.CurrentPriceRank)
}
