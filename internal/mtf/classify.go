package mtf

// DirectionFromEMA derives a single timeframe's raw trend direction from
// the relationship between the latest close and a slower EMA (spec §4.7:
// each per-timeframe analysis produces a label before it ever reaches the
// stabilization buffer). toleranceATR expresses how far close must sit
// from the EMA, in ATR units, before the reading leaves neutral — a close
// hugging the EMA is noise, not a trend.
func DirectionFromEMA(close, ema, atr, toleranceATR float64) TrendDirection {
	if atr <= 0 {
		return TrendNeutral
	}
	distance := (close - ema) / atr
	switch {
	case distance >= toleranceATR:
		return TrendUp
	case distance <= -toleranceATR:
		return TrendDown
	default:
		return TrendNeutral
	}
}
