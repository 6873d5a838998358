package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/rangescalp/engine/internal/market"
)

func makeCandles(closes []float64) []market.Candle {
	out := make([]market.Candle, len(closes))
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = market.Candle{
			Timestamp: t.Add(time.Duration(i) * time.Minute),
			Open:      c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: 100,
		}
	}
	return out
}

func TestRSIInsufficientDataReturnsNeutral(t *testing.T) {
	closes := []float64{100, 101, 102}
	assert.Equal(t, 50.0, RSI(closes, 14))
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	assert.Equal(t, 100.0, RSI(closes, 14))
}

func TestATRZeroOnShortWindow(t *testing.T) {
	candles := makeCandles([]float64{100, 101})
	assert.Equal(t, 0.0, ATR(candles, 14))
}

func TestATRPositiveOnSufficientWindow(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	candles := makeCandles(closes)
	assert.Greater(t, ATR(candles, 14), 0.0)
}

func TestBollingerWidthNonNegative(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	bb := Bollinger(closes, 20, 2)
	assert.GreaterOrEqual(t, bb.Width, 0.0)
	assert.Greater(t, bb.Upper, bb.Mid)
	assert.Less(t, bb.Lower, bb.Mid)
}

func TestVWAPWeightsByVolume(t *testing.T) {
	candles := []market.Candle{
		{Open: 10, High: 10, Low: 10, Close: 10, Volume: 1},
		{Open: 20, High: 20, Low: 20, Close: 20, Volume: 9},
	}
	// typical price equals close here since H=L=C
	got := VWAP(candles)
	assert.InDelta(t, 19.0, got, 1e-9)
}

func TestEffectiveATRTakesLarger(t *testing.T) {
	assert.Equal(t, 5.0, EffectiveATR(5.0, 4.0, 2.0)) // 0.5*4*2=4 < 5
	assert.Equal(t, 6.0, EffectiveATR(1.0, 4.0, 3.0)) // 0.5*4*3=6 > 1
}

func TestStochasticNeutralDefaultWhenShort(t *testing.T) {
	r := Stochastic(makeCandles([]float64{100}), 14, 3)
	assert.Equal(t, 50.0, r.K)
	assert.Equal(t, 50.0, r.D)
}
