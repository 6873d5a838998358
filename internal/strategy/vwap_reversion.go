package strategy

const vwapReversionMinDistanceATR = 1.2

// VWAPMeanReversionSignal fires when the latest close sits at least
// vwapReversionMinDistanceATR ATRs away from VWAP, betting on reversion back
// toward it (spec §4.6). vwapMomentumATRPerBar is VWAP's own drift in ATRs
// per bar: when VWAP drifts against the trade (falling for a long, rising
// for a short) the reversion is weaker, so confidence is trimmed, not
// rejected outright.
func VWAPMeanReversionSignal(close, vwap, atr, vwapMomentumATRPerBar, slMultiple, tpMultiple float64) (EntrySignal, bool) {
	if atr <= 0 {
		return EntrySignal{}, false
	}
	distance := (close - vwap) / atr

	var long bool
	switch {
	case distance >= vwapReversionMinDistanceATR:
		long = false // price stretched above VWAP, fade down toward it
	case distance <= -vwapReversionMinDistanceATR:
		long = true // price stretched below VWAP, fade up toward it
	default:
		return EntrySignal{}, false
	}

	confidence := 60.0 + 10*clamp(abs(distance)-vwapReversionMinDistanceATR, 0, 3)
	if long && vwapMomentumATRPerBar < 0 {
		confidence -= 15
	}
	if !long && vwapMomentumATRPerBar > 0 {
		confidence -= 15
	}

	sl, tp := RiskReward(close, atr, slMultiple, tpMultiple, long)
	return EntrySignal{
		Strategy: VWAPMeanReversion, Long: long,
		Entry: close, StopLoss: sl, TakeProfit: tp,
		Confidence: clamp(confidence, 0, 100),
		Reason:     "price extended from VWAP",
	}, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
