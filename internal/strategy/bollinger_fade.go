package strategy

// BollingerFadeSignal fires when the latest close trades at or beyond the
// Bollinger band extreme, betting on a fade back toward the middle band
// (spec §4.6). The take-profit target is the middle band itself rather
// than a fixed ATR multiple when that distance is larger than tpMultiple
// would give, since the mean-reversion target is structurally the band's
// own middle.
func BollingerFadeSignal(close, upper, middle, lower, atr, slMultiple, tpMultiple float64) (EntrySignal, bool) {
	if atr <= 0 || upper <= lower {
		return EntrySignal{}, false
	}

	var long bool
	switch {
	case close >= upper:
		long = false
	case close <= lower:
		long = true
	default:
		return EntrySignal{}, false
	}

	sl, tp := RiskReward(close, atr, slMultiple, tpMultiple, long)
	if long && middle > tp {
		tp = middle
	}
	if !long && middle < tp {
		tp = middle
	}

	bandWidth := upper - lower
	penetration := 0.0
	if long {
		penetration = (lower - close) / bandWidth
	} else {
		penetration = (close - upper) / bandWidth
	}
	confidence := clamp(55+penetration*200, 0, 100)

	return EntrySignal{
		Strategy: BollingerFade, Long: long,
		Entry: close, StopLoss: sl, TakeProfit: tp,
		Confidence: confidence,
		Reason:     "close beyond Bollinger band extreme",
	}, true
}
