package strategy

import "github.com/rangescalp/engine/internal/structure"

const pdhPdlProximityATRFactor = 0.25
const pdhPdlWickThreshold = 0.4

// PDHPDLRejectionSignal fires when the latest candle approaches the
// previous day's high or low within pdhPdlProximityATRFactor*atr and shows
// a rejection wick at that boundary (spec §4.6): price probes the prior
// day's extreme and is pushed back by a visible wick.
func PDHPDLRejectionSignal(last Candle, pdh, pdl, atr, slMultiple, tpMultiple float64) (EntrySignal, bool) {
	if atr <= 0 {
		return EntrySignal{}, false
	}
	tol := pdhPdlProximityATRFactor * atr
	asymmetry := structure.WickAsymmetry(last)

	switch {
	case last.High >= pdh-tol && asymmetry >= pdhPdlWickThreshold:
		sl, tp := RiskReward(last.Close, atr, slMultiple, tpMultiple, false)
		return EntrySignal{
			Strategy: PDHPDLRejection, Long: false,
			Entry: last.Close, StopLoss: sl, TakeProfit: tp,
			Confidence: clamp(55+asymmetry*50, 0, 100),
			Reason:     "rejection wick at previous day high",
		}, true
	case last.Low <= pdl+tol && asymmetry <= -pdhPdlWickThreshold:
		sl, tp := RiskReward(last.Close, atr, slMultiple, tpMultiple, true)
		return EntrySignal{
			Strategy: PDHPDLRejection, Long: true,
			Entry: last.Close, StopLoss: sl, TakeProfit: tp,
			Confidence: clamp(55-asymmetry*50, 0, 100),
			Reason:     "rejection wick at previous day low",
		}, true
	}
	return EntrySignal{}, false
}
