package structure

import "math"

// WickAsymmetry is (upper-lower)/(upper+lower) for a single candle, in
// [-1,1]. Zero when both wicks are zero. Positive >= 0.4 signals an
// upper-rejection (bearish); negative <= -0.4 signals a lower-rejection
// (bullish).
func WickAsymmetry(c Candle) float64 {
	upper := c.High - math.Max(c.Open, c.Close)
	lower := math.Min(c.Open, c.Close) - c.Low
	if upper+lower == 0 {
		return 0
	}
	return (upper - lower) / (upper + lower)
}

const wickRejectionThreshold = 0.4

// UpperRejection reports whether the candle shows a bearish upper-wick
// rejection (asymmetry >= 0.4).
func UpperRejection(c Candle) bool {
	return WickAsymmetry(c) >= wickRejectionThreshold
}

// LowerRejection reports whether the candle shows a bullish lower-wick
// rejection (asymmetry <= -0.4).
func LowerRejection(c Candle) bool {
	return WickAsymmetry(c) <= -wickRejectionThreshold
}
