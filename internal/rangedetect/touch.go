package rangedetect

import "math"

// touchTolerancePct is the boundary tolerance as a fraction of the boundary
// price itself (spec §3/§4.2, mined verbatim from the Python original's
// _count_range_touches: 0.2% of range_high/range_low, not ATR-scaled).
const touchTolerancePct = 0.002

// CountTouches walks candles oldest-first and counts touches of the range's
// High and Low boundaries. A touch requires both: the bar's high (low) comes
// within touchTolerancePct*r.High (r.Low) of the boundary, AND the bar's
// close settles back inside the range plus that same tolerance — a breakout
// bar whose high clears the boundary and whose close stays beyond it is not
// a touch, it is the start of an escape. Consecutive touching bars on the
// same side collapse into a single touch — the counter only increments on
// the transition into a touch, never while it persists (spec §4.2: "a touch
// is an approach, not a bar count").
func CountTouches(r *RangeStructure, candles []Candle) (touchesHigh, touchesLow int) {
	if r == nil || r.High <= r.Low {
		return 0, 0
	}
	tolHigh := touchTolerancePct * r.High
	tolLow := touchTolerancePct * r.Low

	inHighTouch, inLowTouch := false, false
	for _, c := range candles {
		touchingHigh := math.Abs(c.High-r.High) <= tolHigh && c.Close <= r.High+tolHigh
		touchingLow := math.Abs(c.Low-r.Low) <= tolLow && c.Close >= r.Low-tolLow

		if touchingHigh && !inHighTouch {
			touchesHigh++
		}
		if touchingLow && !inLowTouch {
			touchesLow++
		}
		inHighTouch = touchingHigh
		inLowTouch = touchingLow
	}
	return touchesHigh, touchesLow
}

// ApplyTouches recomputes and stores touch counts on r in place. atr is
// accepted for call-site symmetry with the other Apply* functions but is no
// longer part of the touch tolerance formula (spec §4.2 specifies a
// boundary-price percentage, not an ATR multiple).
func ApplyTouches(r *RangeStructure, candles []Candle, atr float64) {
	if r == nil {
		return
	}
	r.TouchesHigh, r.TouchesLow = CountTouches(r, candles)
}
