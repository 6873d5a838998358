// Package structure implements the pure market-structure detectors: swing
// points, equal-high/low liquidity clusters, sweeps, BOS/CHOCH, fair-value
// gaps, wick asymmetry, and rolling volume footprint. Every detector is a
// pure function of (window, atr) plus its own constants — no I/O, no
// mutation of the input window, no state across calls. This mirrors the
// teacher's structure-detector packages (internal/domain/microstructure,
// internal/domain/factors), generalized from order-book microstructure to
// candle-window swing/liquidity structure.
package structure

// SwingKind labels a swing point as a high or a low.
type SwingKind int

const (
	SwingHigh SwingKind = iota
	SwingLow
)

// Swing is a single fractal extreme.
type Swing struct {
	Index int
	Price float64
	Kind  SwingKind
}

// swingFractalK is the fractal half-window: index i is a swing high iff
// high[i] is the strict maximum of [i-k, i+k] (spec §4.1), mirror for lows.
const swingFractalK = 3

// highs returns the window's high prices; lows is its mirror for low
// prices.
func highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

func lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// DetectSwings scans candles for fractal swing highs/lows with the default
// half-window k=3. The first and last k candles can never be labeled
// (insufficient neighbors) and are skipped.
func DetectSwings(candles []Candle) []Swing {
	return DetectSwingsK(candles, swingFractalK)
}

// DetectSwingsK is DetectSwings with an explicit fractal half-window, used
// by callers (e.g. the dynamic range detector) that need the same rule at
// a different k.
func DetectSwingsK(candles []Candle, k int) []Swing {
	n := len(candles)
	if k <= 0 || n < 2*k+1 {
		return nil
	}
	var swings []Swing
	for i := k; i < n-k; i++ {
		if isStrictMax(candles, i, k, true) {
			swings = append(swings, Swing{Index: i, Price: candles[i].High, Kind: SwingHigh})
		}
		if isStrictMax(candles, i, k, false) {
			swings = append(swings, Swing{Index: i, Price: candles[i].Low, Kind: SwingLow})
		}
	}
	return swings
}

// isStrictMax reports whether candles[i]'s high (or low, inverted) is the
// strict extreme of the closed window [i-k, i+k].
func isStrictMax(candles []Candle, i, k int, forHigh bool) bool {
	var pivot float64
	if forHigh {
		pivot = candles[i].High
	} else {
		pivot = candles[i].Low
	}
	for j := i - k; j <= i+k; j++ {
		if j == i {
			continue
		}
		if forHigh {
			if candles[j].High >= pivot {
				return false
			}
		} else {
			if candles[j].Low <= pivot {
				return false
			}
		}
	}
	return true
}

// LastSwingHigh and LastSwingLow return the most recent swing of each kind,
// or ok=false if none was detected.
func LastSwingHigh(swings []Swing) (Swing, bool) {
	return lastOfKind(swings, SwingHigh)
}

func LastSwingLow(swings []Swing) (Swing, bool) {
	return lastOfKind(swings, SwingLow)
}

func lastOfKind(swings []Swing, kind SwingKind) (Swing, bool) {
	for i := len(swings) - 1; i >= 0; i-- {
		if swings[i].Kind == kind {
			return swings[i], true
		}
	}
	return Swing{}, false
}
