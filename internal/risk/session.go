package risk

import (
	"strings"
	"time"
)

// SessionBlackoutGate rejects candidates whose evaluation time falls in one
// of the configured UTC blackout hours (spec §4.4: e.g. the illiquid
// low-volume hours around daily rollover).
func SessionBlackoutGate(now time.Time, blackoutHoursUTC []int) (bool, string) {
	hour := now.UTC().Hour()
	for _, h := range blackoutHoursUTC {
		if h == hour {
			return false, "session_blackout: current hour is in the configured blackout window"
		}
	}
	return true, ""
}

// TradeActivityFloorGate rejects candidates whose current ATR falls below
// minATR: a range that has gone too quiet is not producing tradeable
// rotations, only noise (spec §4.4).
func TradeActivityFloorGate(atr, minATR float64) (bool, string) {
	if atr < minATR {
		return false, "trade_activity_floor: ATR below minimum"
	}
	return true, ""
}

// NestedAlignmentGate checks spec §4.4's named three-timeframe hierarchy:
// M5 must nest inside M15 with price sitting in the lower third of the M5
// range for a long candidate (upper third for a short), and M15 must nest
// inside H1 (a regime-match check — trading a range that isn't actually
// part of the higher timeframe's range is a lower-quality entry). Either
// timeframe pair is skipped (treated as aligned) if its range is nil, so
// this gate degrades gracefully when a coarser range failed to build.
// Grounded on the Python original's check_nested_range_alignment.
func NestedAlignmentGate(h1, m15, m5 *RangeStructure, price float64, long bool) (bool, string) {
	var reasons []string

	if m15 != nil && m5 != nil {
		if !(m15.Low <= m5.Low && m5.High <= m15.High) {
			reasons = append(reasons, "M5 range is not nested within M15")
		}
		width := m5.High - m5.Low
		if width > 0 {
			lowerThird := m5.Low + width/3
			upperThird := m5.High - width/3
			if long && price > lowerThird {
				where := "middle third"
				if price > upperThird {
					where = "upper third"
				}
				reasons = append(reasons, "price sits in the "+where+" of M5, conflicting with the long candidate")
			}
			if !long && price < upperThird {
				where := "middle third"
				if price < lowerThird {
					where = "lower third"
				}
				reasons = append(reasons, "price sits in the "+where+" of M5, conflicting with the short candidate")
			}
		}
	}

	if h1 != nil && m15 != nil {
		if !(h1.Low <= m15.Low && m15.High <= h1.High) {
			reasons = append(reasons, "M15 range is not nested within H1 (regime mismatch)")
		}
	}

	if len(reasons) > 0 {
		return false, "nested_alignment: " + strings.Join(reasons, "; ")
	}
	return true, ""
}
