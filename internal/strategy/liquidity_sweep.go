package strategy

import "github.com/rangescalp/engine/internal/structure"

const sweepMinConfidence = 60

// LiquiditySweepReversalSignal fires on a validated sweep (spec §4.6):
// internal/structure's two-phase detect+validate already ran, so this
// strategy only needs to check the result cleared the confidence floor and
// translate it into an EntrySignal — a bullish sweep (stop-run below a
// swing low, then reclaim) is a long, the mirror a short.
func LiquiditySweepReversalSignal(sweep structure.SweepResult, close, atr, slMultiple, tpMultiple float64) (EntrySignal, bool) {
	if atr <= 0 || !sweep.Validated || sweep.Confidence < sweepMinConfidence || sweep.Fake {
		return EntrySignal{}, false
	}

	long := sweep.Bullish
	sl, tp := RiskReward(close, atr, slMultiple, tpMultiple, long)
	return EntrySignal{
		Strategy: LiquiditySweepReversal, Long: long,
		Entry: close, StopLoss: sl, TakeProfit: tp,
		Confidence: float64(sweep.Confidence),
		Reason:     "validated liquidity sweep reversal",
	}, true
}
