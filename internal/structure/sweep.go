package structure

import "math"

const sweepLookback = 20
const sweepBreachATRFactor = 0.15 // last-bar breach must exceed swing + 0.15*ATR

// SweepResult is the combined detect+validate outcome. Spec §9 notes the
// source's detect_sweep/validate_sweep split is really one two-phase
// function over the same lookback window; this type carries both phases'
// fields so callers never have to thread intermediate state between them.
type SweepResult struct {
	Bullish   bool
	Bearish   bool
	Depth     float64 // (breach - swing)/ATR
	Price     float64 // the sweep bar's extreme price
	Validated bool
	Confidence int // 0-100
	Fake      bool
	VolumeRatio     float64
	FollowThroughATR float64
}

// DetectAndValidateSweep runs the lookback-20 sweep test on the last bar of
// candles, then — if a sweep fired — runs the validation phase (spec §4.1),
// which examines up to 3 bars after the sweep bar. candles must be ordered
// oldest first. The sweep bar is always the last candle, so no bars follow
// it within one call: Validated stays false, FollowThroughATR stays 0, and
// Confidence reflects only the volume ratio and sweep depth.
func DetectAndValidateSweep(candles []Candle, atr float64) SweepResult {
	if len(candles) < sweepLookback+1 || atr <= 0 {
		return SweepResult{}
	}
	sweepBarIdx := len(candles) - 1
	// The sweep bar is the last candle, so validateSweep finds no
	// confirmation bars after it (confidence reflects that).
	lookbackWindow := candles[sweepBarIdx-sweepLookback : sweepBarIdx]
	swingHigh := maxHigh(lookbackWindow)
	swingLow := minLow(lookbackWindow)

	last := candles[sweepBarIdx]
	res := SweepResult{}

	if last.High > swingHigh+sweepBreachATRFactor*atr && last.Close < swingHigh {
		res.Bullish = true
		res.Depth = (last.High - swingHigh) / atr
		res.Price = last.High
	} else if last.Low < swingLow-sweepBreachATRFactor*atr && last.Close > swingLow {
		res.Bearish = true
		res.Depth = (swingLow - last.Low) / atr
		res.Price = last.Low
	} else {
		return res
	}

	validateSweep(&res, candles, sweepBarIdx, swingHigh, swingLow, atr)
	return res
}

func validateSweep(res *SweepResult, candles []Candle, sweepBarIdx int, swingHigh, swingLow, atr float64) {
	confirmBars := candles[sweepBarIdx+1:]
	if len(confirmBars) > 3 {
		confirmBars = confirmBars[:3]
	}

	meanVol := meanVolume(candles[sweepBarIdx-sweepLookback : sweepBarIdx])
	if meanVol > 0 {
		res.VolumeRatio = candles[sweepBarIdx].Volume / meanVol
	}

	confidence := 50
	if res.VolumeRatio >= 1.5 {
		confidence += 20
	} else if res.VolumeRatio >= 1.2 {
		confidence += 10
	}

	if len(confirmBars) > 0 {
		confirmClose := confirmBars[len(confirmBars)-1].Close
		var followThrough float64
		if res.Bullish {
			followThrough = (res.Price - confirmClose) / atr
		} else {
			followThrough = (confirmClose - res.Price) / atr
		}
		res.FollowThroughATR = followThrough

		if followThrough >= 0.3 {
			confidence += 25
		} else if followThrough >= 0.15 {
			confidence += 15
		} else if followThrough <= -0.2 {
			confidence -= 20
		}

		for _, c := range confirmBars {
			if res.Bullish && c.High > swingHigh {
				res.Fake = true
			}
			if res.Bearish && c.Low < swingLow {
				res.Fake = true
			}
		}
		if res.Fake {
			confidence -= 30
		}

		res.Validated = followThrough >= 0.15 && !res.Fake
	}

	if res.Depth >= 0.3 {
		confidence += 10
	} else if res.Depth >= 0.2 {
		confidence += 5
	}

	res.Confidence = clampInt(confidence, 0, 100)
}

func maxHigh(candles []Candle) float64 {
	m := candles[0].High
	for _, c := range candles[1:] {
		if c.High > m {
			m = c.High
		}
	}
	return m
}

func minLow(candles []Candle) float64 {
	m := candles[0].Low
	for _, c := range candles[1:] {
		if c.Low < m {
			m = c.Low
		}
	}
	return m
}

func meanVolume(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candles {
		sum += c.Volume
	}
	return sum / float64(len(candles))
}

func clampInt(v, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(float64(hi), float64(v))))
}
