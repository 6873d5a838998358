package rangedetect

import "github.com/rangescalp/engine/internal/structure"

// ApplyValidity marks r valid unless a confirmed break of structure has its
// break level sitting inside [Low, High]: that is the signature of a break
// that formed from noise within the range itself rather than a genuine
// escape through a boundary, and spec §4.2/§8 treats it as invalidating the
// range (validate_range_integrity in the Python original).
func ApplyValidity(r *RangeStructure, candles []Candle, atr float64) {
	if r == nil {
		return
	}
	if atr <= 0 || len(candles) == 0 {
		r.Valid = true
		return
	}

	swings := structure.DetectSwings(candles)
	labeled := structure.LabelSwings(swings)
	currentClose := candles[len(candles)-1].Close
	bos := structure.DetectBOSCHOCH(labeled, currentClose, atr, 0)

	brokeInsideRange := bos.HasBreak && bos.BreakLevel >= r.Low && bos.BreakLevel <= r.High
	r.Valid = !brokeInsideRange
}
