package strategy

const rsiOversold = 30.0
const rsiOverbought = 70.0

// RSIBounceSignal fires when RSI has crossed back from an oversold or
// overbought extreme on the current bar relative to the previous bar's
// reading — the bounce confirmation, not the extreme itself, is what
// triggers the entry (spec §4.6: entering the moment RSI first touches 30
// trades ahead of confirmation; waiting for the cross back is the
// strategy's whole edge).
func RSIBounceSignal(prevRSI, currRSI, close, atr, slMultiple, tpMultiple float64) (EntrySignal, bool) {
	if atr <= 0 {
		return EntrySignal{}, false
	}

	switch {
	case prevRSI <= rsiOversold && currRSI > prevRSI:
		sl, tp := RiskReward(close, atr, slMultiple, tpMultiple, true)
		return EntrySignal{
			Strategy: RSIBounce, Long: true,
			Entry: close, StopLoss: sl, TakeProfit: tp,
			Confidence: clamp(50+(rsiOversold-prevRSI)*2, 0, 100),
			Reason:     "RSI bounced off oversold",
		}, true
	case prevRSI >= rsiOverbought && currRSI < prevRSI:
		sl, tp := RiskReward(close, atr, slMultiple, tpMultiple, false)
		return EntrySignal{
			Strategy: RSIBounce, Long: false,
			Entry: close, StopLoss: sl, TakeProfit: tp,
			Confidence: clamp(50+(prevRSI-rsiOverbought)*2, 0, 100),
			Reason:     "RSI bounced off overbought",
		}, true
	}
	return EntrySignal{}, false
}
