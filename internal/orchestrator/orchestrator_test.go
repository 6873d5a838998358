package orchestrator

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/config"
	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/rangedetect"
	"github.com/rangescalp/engine/internal/scorer"
	"github.com/rangescalp/engine/internal/strategy"
	"github.com/stretchr/testify/assert"
)

func TestRRMultipleUsesDefaultWithoutOverride(t *testing.T) {
	cfg := config.RiskRewardConfig{StopLossATRMultiple: 1.0, TakeProfitATRMultiple: 2.0}
	assert.Equal(t, 1.0, rrMultiple(cfg, strategy.VWAPMeanReversion, false))
	assert.Equal(t, 2.0, rrMultiple(cfg, strategy.VWAPMeanReversion, true))
}

func TestRRMultipleUsesPerStrategyOverride(t *testing.T) {
	cfg := config.RiskRewardConfig{
		StopLossATRMultiple:   1.0,
		TakeProfitATRMultiple: 2.0,
		PerStrategyOverride: map[string]config.RRPair{
			string(strategy.BollingerFade): {StopLossATRMultiple: 0.5, TakeProfitATRMultiple: 1.5},
		},
	}
	assert.Equal(t, 0.5, rrMultiple(cfg, strategy.BollingerFade, false))
	assert.Equal(t, 1.5, rrMultiple(cfg, strategy.BollingerFade, true))
	assert.Equal(t, 1.0, rrMultiple(cfg, strategy.RSIBounce, false))
}

func TestRegimeWeightDefaultsToOneWhenUnconfigured(t *testing.T) {
	p := &Pipeline{Weights: config.WeightTables{}}
	assert.Equal(t, 1.0, p.regimeWeight(scorer.RegimeRanging, strategy.VWAPMeanReversion))
}

func TestRegimeWeightUsesConfiguredTable(t *testing.T) {
	p := &Pipeline{Weights: config.WeightTables{
		Regimes: map[string]map[string]float64{
			string(scorer.RegimeTrending): {string(strategy.VWAPMeanReversion): 0.0},
		},
	}}
	assert.Equal(t, 0.0, p.regimeWeight(scorer.RegimeTrending, strategy.VWAPMeanReversion))
	assert.Equal(t, 1.0, p.regimeWeight(scorer.RegimeTrending, strategy.RSIBounce))
}

func TestOrderFlowConfirmationAgreeingFlowScoresHigh(t *testing.T) {
	assert.Greater(t, orderFlowConfirmation(true, 0.8), 0.5)
	assert.Greater(t, orderFlowConfirmation(false, -0.8), 0.5)
}

func TestOrderFlowConfirmationOpposingFlowScoresLow(t *testing.T) {
	assert.Less(t, orderFlowConfirmation(true, -0.8), 0.5)
	assert.Less(t, orderFlowConfirmation(false, 0.8), 0.5)
}

func TestClosesOfExtractsCloseSeries(t *testing.T) {
	candles := []market.Candle{{Close: 1}, {Close: 2}, {Close: 3}}
	assert.Equal(t, []float64{1, 2, 3}, closesOf(candles))
}

func TestHistoricalATRAverageRequiresEnoughHistory(t *testing.T) {
	short := make([]market.Candle, 10)
	assert.Zero(t, historicalATRAverage(short, 14))
}

func TestBarsSinceLastTouchZeroWhenLatestBarTouches(t *testing.T) {
	r := &rangedetect.RangeStructure{High: 110, Low: 90}
	candles := []market.Candle{
		{High: 100, Low: 95},
		{High: 111, Low: 105},
	}
	assert.Equal(t, 0, barsSinceLastTouch(r, candles, 1))
}

func TestBarsSinceLastTouchFallsBackToFullLengthWithNoATR(t *testing.T) {
	r := &rangedetect.RangeStructure{High: 110, Low: 90}
	candles := []market.Candle{{High: 100, Low: 95}}
	assert.Equal(t, 1, barsSinceLastTouch(r, candles, 0))
}

func TestInvalidationBulletinsEmptyWhenNotInvalidated(t *testing.T) {
	assert.Nil(t, invalidationBulletins(&rangedetect.RangeStructure{}))
	assert.Nil(t, invalidationBulletins(nil))
}

func TestInvalidationBulletinsRendersReason(t *testing.T) {
	r := &rangedetect.RangeStructure{Invalidated: true, InvalidReason: "bos_break"}
	assert.Equal(t, []string{"range invalidated: bos_break"}, invalidationBulletins(r))
}

func TestNonTradeResultCarriesWarnings(t *testing.T) {
	now := time.Now()
	res := nonTrade("EURUSD", now, "asian", "w1", "w2")
	assert.False(t, res.RangeDetected)
	assert.Equal(t, []string{"w1", "w2"}, res.Warnings)
	assert.Equal(t, "EURUSD", res.Symbol)
}
