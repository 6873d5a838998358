package scorer

import (
	"testing"

	"github.com/rangescalp/engine/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRegimeBuckets(t *testing.T) {
	assert.Equal(t, RegimeRanging, ClassifyRegime(15))
	assert.Equal(t, RegimeTransitional, ClassifyRegime(22))
	assert.Equal(t, RegimeTrending, ClassifyRegime(30))
}

func TestScoreGatesMeanReversionInTrending(t *testing.T) {
	s := Score(ScoreInputs{
		Signal:          strategy.EntrySignal{Strategy: strategy.VWAPMeanReversion, Confidence: 90},
		Regime:          RegimeTrending,
		RegimeWeight:    1.0,
		TimeframeWeight: 1.0,
	})
	assert.True(t, s.Gated)
	assert.Equal(t, 0.0, s.Total)
}

func TestScoreDoesNotGateSweepReversalInTrending(t *testing.T) {
	s := Score(ScoreInputs{
		Signal:          strategy.EntrySignal{Strategy: strategy.LiquiditySweepReversal, Confidence: 80},
		Regime:          RegimeTrending,
		RegimeWeight:    1.2,
		TimeframeWeight: 1.0,
	})
	assert.False(t, s.Gated)
	assert.Greater(t, s.Total, 0.0)
}

func TestSelectTop2KeepsOnlyHigherScoringDirection(t *testing.T) {
	scores := []StrategyScore{
		{Signal: strategy.EntrySignal{Strategy: strategy.RSIBounce, Long: true}, Total: 80},
		{Signal: strategy.EntrySignal{Strategy: strategy.BollingerFade, Long: false}, Total: 50},
		{Signal: strategy.EntrySignal{Strategy: strategy.VWAPMeanReversion, Long: true}, Total: 60},
	}
	top := SelectTop2(scores)
	require.Len(t, top, 2)
	for _, s := range top {
		assert.True(t, s.Signal.Long)
	}
	assert.Equal(t, 80.0, top[0].Total)
}

func TestSelectTop2ExcludesGated(t *testing.T) {
	scores := []StrategyScore{
		{Signal: strategy.EntrySignal{Strategy: strategy.RSIBounce, Long: true}, Total: 80, Gated: true},
		{Signal: strategy.EntrySignal{Strategy: strategy.LiquiditySweepReversal, Long: true}, Total: 60},
	}
	top := SelectTop2(scores)
	require.Len(t, top, 1)
	assert.Equal(t, strategy.LiquiditySweepReversal, top[0].Signal.Strategy)
}
