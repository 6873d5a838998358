package monitor

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/exits"
	"github.com/rangescalp/engine/internal/market"
	"github.com/stretchr/testify/assert"
)

func candlesFlat(n int, price float64) []market.Candle {
	candles := make([]market.Candle, n)
	ts := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		ts = ts.Add(market.M5.Period())
		candles[i] = market.Candle{Timestamp: ts, Open: price, High: price + 0.1, Low: price - 0.1, Close: price, Volume: 10}
	}
	return candles
}

func TestTakeProfitReachedLong(t *testing.T) {
	trade := exits.ActiveTrade{Long: true, TakeProfit: 110}
	assert.True(t, takeProfitReached(trade, 110))
	assert.False(t, takeProfitReached(trade, 109))
}

func TestTakeProfitReachedShort(t *testing.T) {
	trade := exits.ActiveTrade{Long: false, TakeProfit: 90}
	assert.True(t, takeProfitReached(trade, 90))
	assert.False(t, takeProfitReached(trade, 91))
}

func TestTwoBarsOutsideRangeRequiresBothBarsOutside(t *testing.T) {
	trade := exits.ActiveTrade{RangeHigh: 110, RangeLow: 90}
	candles := []market.Candle{
		{Close: 111},
		{Close: 112},
	}
	assert.True(t, twoBarsOutsideRange(trade, candles))

	mixed := []market.Candle{
		{Close: 100},
		{Close: 112},
	}
	assert.False(t, twoBarsOutsideRange(trade, mixed))
}

func TestTwoBarsOutsideRangeNoRangeRegistered(t *testing.T) {
	trade := exits.ActiveTrade{RangeHigh: 0, RangeLow: 0}
	assert.False(t, twoBarsOutsideRange(trade, []market.Candle{{Close: 111}, {Close: 112}}))
}

func TestBBWidthExpandingRequiresEnoughHistory(t *testing.T) {
	assert.False(t, bbWidthExpanding(candlesFlat(10, 100)))
}

func TestM15BOSConfirmedEmptyCandlesIsFalse(t *testing.T) {
	assert.False(t, m15BOSConfirmed(nil))
}

func TestAdverseFlowStrengthAgreeingFlowIsZero(t *testing.T) {
	assert.Zero(t, adverseFlowStrength(true, 0.5))
	assert.Zero(t, adverseFlowStrength(false, -0.5))
}

func TestAdverseFlowStrengthOpposingFlowReturnsMagnitude(t *testing.T) {
	assert.InDelta(t, 0.5, adverseFlowStrength(true, -0.5), 1e-9)
	assert.InDelta(t, 0.5, adverseFlowStrength(false, 0.5), 1e-9)
}
