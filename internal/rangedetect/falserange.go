package rangedetect

import "math"

const falseRangeDivergenceThreshold = 0.35
const falseRangeMinTouches = 3

// FalseRange is the result of DetectFalseRange: a range that looks like
// two-sided consolidation on price alone but whose order flow shows a
// one-sided imbalance — one side is absorbing into the range rather than
// genuinely rotating, and a breakout against the apparent rotation is more
// likely than a breakout with it (spec §4.2).
type FalseRange struct {
	Found             bool
	BullishImbalance  bool // buyers absorbing into lows; expect upside resolution
	BearishImbalance  bool // sellers absorbing into highs; expect downside resolution
	DivergenceStrength float64 // 0..1
}

// approximateDelta estimates a single candle's signed volume delta from its
// close-location-value, the standard OHLCV-only proxy for order-flow delta
// when no bid/ask tick stream is available (spec §9's CVD proxy decision —
// this repo has no tick feed, only the candle store of §6). clv in [-1,1]:
// +1 when the candle closes at its high, -1 at its low.
func approximateDelta(c Candle) float64 {
	span := c.High - c.Low
	if span <= 0 {
		return 0
	}
	clv := (2*c.Close - c.High - c.Low) / span
	return clv * c.Volume
}

// CumulativeDelta returns the running sum of approximateDelta over candles,
// the CVD proxy series used by divergence scoring.
func CumulativeDelta(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	running := 0.0
	for i, c := range candles {
		running += approximateDelta(c)
		out[i] = running
	}
	return out
}

// CVDDivergenceStrength compares the linear trend of price against the
// linear trend of cumulative delta over candles and returns a signed
// strength in [-1,1]: positive means price is flat-to-down while CVD
// trends up (bullish absorption), negative the mirror. Magnitude is the
// normalized slope disagreement, not a statistical p-value — this is a
// heuristic divergence score, not a claim of cointegration.
func CVDDivergenceStrength(candles []Candle) float64 {
	n := len(candles)
	if n < 4 {
		return 0
	}
	closes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
	}
	cvd := CumulativeDelta(candles)

	priceSlope := normalizedSlope(closes)
	cvdSlope := normalizedSlope(cvd)

	// Divergence: CVD trending opposite to (or much stronger than) price.
	diff := cvdSlope - priceSlope
	strength := math.Tanh(diff)
	return math.Max(-1, math.Min(1, strength))
}

// normalizedSlope fits a simple least-squares slope over series against
// index, then normalizes by the series' own range so price and CVD (wildly
// different units) become comparable.
func normalizedSlope(series []float64) float64 {
	n := float64(len(series))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denom

	lo, hi := series[0], series[0]
	for _, v := range series {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	spread := hi - lo
	if spread == 0 {
		return 0
	}
	return slope * n / spread
}

// DetectFalseRange flags r as a false range when it has accumulated at
// least falseRangeMinTouches combined touches (genuine back-and-forth, not
// a single probe) yet its order flow shows a one-sided divergence beyond
// falseRangeDivergenceThreshold.
func DetectFalseRange(r *RangeStructure, candles []Candle) FalseRange {
	if r == nil || r.TouchesHigh+r.TouchesLow < falseRangeMinTouches {
		return FalseRange{}
	}
	strength := CVDDivergenceStrength(candles)
	abs := math.Abs(strength)
	if abs < falseRangeDivergenceThreshold {
		return FalseRange{}
	}
	return FalseRange{
		Found:              true,
		BullishImbalance:   strength > 0,
		BearishImbalance:   strength < 0,
		DivergenceStrength: abs,
	}
}
