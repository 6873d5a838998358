package rangedetect

import "time"

const staleBarsThreshold = 50
const degenerateWidthATRFactor = 0.5

// InvalidationFlags is the set of independent signals ApplyInvalidation
// weighs; spec §4.2 invalidates a range once at least 2 of these 4 fire,
// rather than on any single one (a lone stale range, or a lone narrow
// range, is still tradeable — two together are not).
type InvalidationFlags struct {
	BrokenByBOS bool
	Stale       bool
	Expanding   bool
	Degenerate  bool
}

// Count returns how many of the four flags are set.
func (f InvalidationFlags) Count() int {
	n := 0
	for _, b := range []bool{f.BrokenByBOS, f.Stale, f.Expanding, f.Degenerate} {
		if b {
			n++
		}
	}
	return n
}

// ApplyInvalidation evaluates the four invalidation flags against r's
// current state and marks r.Invalidated when at least two fire. barsSinceTouch
// is the number of candles elapsed since the range's last recorded touch;
// now/atr are used for staleness and degeneracy.
func ApplyInvalidation(r *RangeStructure, barsSinceTouch int, now time.Time, atr float64) InvalidationFlags {
	if r == nil {
		return InvalidationFlags{}
	}
	flags := InvalidationFlags{
		BrokenByBOS: !r.Valid,
		Stale:       barsSinceTouch >= staleBarsThreshold,
		Expanding:   r.Expanding,
		Degenerate:  atr > 0 && r.Width() < degenerateWidthATRFactor*atr,
	}

	r.Invalidated = flags.Count() >= 2
	if r.Invalidated {
		r.InvalidReason = reasonFor(flags)
	} else {
		r.InvalidReason = ""
	}
	r.LastUpdated = now
	return flags
}

func reasonFor(f InvalidationFlags) string {
	reason := ""
	add := func(s string) {
		if reason != "" {
			reason += "+"
		}
		reason += s
	}
	if f.BrokenByBOS {
		add("broken_by_bos")
	}
	if f.Stale {
		add("stale")
	}
	if f.Expanding {
		add("expanding")
	}
	if f.Degenerate {
		add("degenerate")
	}
	return reason
}
