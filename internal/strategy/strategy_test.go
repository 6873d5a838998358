package strategy

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskRewardLongAndShort(t *testing.T) {
	sl, tp := RiskReward(100, 2, 1.0, 2.0, true)
	assert.Equal(t, 98.0, sl)
	assert.Equal(t, 104.0, tp)

	sl2, tp2 := RiskReward(100, 2, 1.0, 2.0, false)
	assert.Equal(t, 102.0, sl2)
	assert.Equal(t, 96.0, tp2)
}

func TestVWAPMeanReversionFiresOnStretch(t *testing.T) {
	sig, ok := VWAPMeanReversionSignal(110, 100, 2.0, 0, 1.0, 2.0)
	require.True(t, ok)
	assert.False(t, sig.Long) // stretched above VWAP -> fade short
	assert.Equal(t, VWAPMeanReversion, sig.Strategy)
}

func TestVWAPMeanReversionNoSignalNearVWAP(t *testing.T) {
	_, ok := VWAPMeanReversionSignal(101, 100, 2.0, 0, 1.0, 2.0)
	assert.False(t, ok)
}

func TestBollingerFadeFiresAtUpperBand(t *testing.T) {
	sig, ok := BollingerFadeSignal(110, 108, 100, 92, 2.0, 1.0, 2.0)
	require.True(t, ok)
	assert.False(t, sig.Long)
	assert.Equal(t, 100.0, sig.TakeProfit) // target is the middle band
}

func TestPDHPDLRejectionFiresAtHigh(t *testing.T) {
	c := Candle{Timestamp: time.Now(), Open: 100, High: 105.2, Low: 99.5, Close: 101, Volume: 10}
	sig, ok := PDHPDLRejectionSignal(c, 105.0, 90.0, 2.0, 1.0, 2.0)
	require.True(t, ok)
	assert.False(t, sig.Long)
}

func TestRSIBounceFiresOnCrossBackFromOversold(t *testing.T) {
	sig, ok := RSIBounceSignal(25, 32, 100, 2.0, 1.0, 2.0)
	require.True(t, ok)
	assert.True(t, sig.Long)
}

func TestRSIBounceNoSignalWhileStillFalling(t *testing.T) {
	_, ok := RSIBounceSignal(30, 25, 100, 2.0, 1.0, 2.0)
	assert.False(t, ok)
}

func TestLiquiditySweepReversalRequiresValidatedConfidence(t *testing.T) {
	sweep := structure.SweepResult{Bullish: true, Validated: true, Confidence: 70}
	sig, ok := LiquiditySweepReversalSignal(sweep, 100, 2.0, 1.0, 2.0)
	require.True(t, ok)
	assert.True(t, sig.Long)

	lowConfidence := structure.SweepResult{Bullish: true, Validated: true, Confidence: 40}
	_, ok2 := LiquiditySweepReversalSignal(lowConfidence, 100, 2.0, 1.0, 2.0)
	assert.False(t, ok2)
}
