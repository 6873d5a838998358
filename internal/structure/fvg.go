package structure

const fvgLookback = 10
const fvgMinWidthATRFactor = 0.1

// FVG is a fair-value gap: a three-bar imbalance the market is expected to
// revisit. Found is false when no qualifying gap exists in the lookback.
type FVG struct {
	Found   bool
	Bullish bool
	Upper   float64
	Lower   float64
	WidthATR float64
	BarsAgo int
}

// DetectFVG scans the last fvgLookback triplets (i-1, i, i+1) and returns
// the most recent qualifying gap (spec §4.1, standardizing on the
// lookback=10 triplet scan per spec §9's open-question resolution).
func DetectFVG(candles []Candle, atr float64) FVG {
	if atr <= 0 || len(candles) < 3 {
		return FVG{}
	}
	start := len(candles) - fvgLookback - 1
	if start < 1 {
		start = 1
	}
	minWidth := fvgMinWidthATRFactor * atr

	var best FVG
	for i := len(candles) - 2; i >= start; i-- {
		prev, next := candles[i-1], candles[i+1]
		if prev.Low > next.High {
			width := prev.Low - next.High
			if width >= minWidth {
				best = FVG{
					Found: true, Bullish: true,
					Upper: prev.Low, Lower: next.High,
					WidthATR: width / atr,
					BarsAgo:  len(candles) - 1 - i,
				}
				return best
			}
		}
		if next.Low > prev.High {
			width := next.Low - prev.High
			if width >= minWidth {
				best = FVG{
					Found: true, Bullish: false,
					Upper: next.Low, Lower: prev.High,
					WidthATR: width / atr,
					BarsAgo:  len(candles) - 1 - i,
				}
				return best
			}
		}
	}
	return FVG{}
}
