// Package rangedetect builds and maintains RangeStructure views over a
// candle window: session/daily/dynamic range construction, touch counting,
// BOS-based validity, expansion state, nested ranges, invalidation, and
// false-range (imbalanced-consolidation) detection. Every exported function
// is a pure function of its inputs, mirroring internal/structure's texture
// (no I/O, no shared mutable state) — this package is the next layer up the
// dependency graph and imports internal/structure and internal/market only.
package rangedetect

import (
	"time"

	"github.com/rangescalp/engine/internal/market"
)

// Candle aliases market.Candle for signature readability.
type Candle = market.Candle

// Kind labels how a range was constructed.
type Kind string

const (
	KindSession Kind = "session"
	KindDaily   Kind = "daily"
	KindDynamic Kind = "dynamic"
)

// criticalGapWidthFactor is the fraction of range width each boundary zone
// extends inward from its edge (spec §3/§4.4, mined verbatim from the
// Python original's calculate_critical_gaps: 0.15 * range width).
const criticalGapWidthFactor = 0.15

// CriticalGapZones is the pair of boundary price intervals the confluence
// "location" score checks a candidate price against: the top
// criticalGapWidthFactor of the range below High, and the bottom
// criticalGapWidthFactor above Low (spec §3, grounded on
// range_boundary_detector.py's CriticalGapZones/calculate_critical_gaps).
type CriticalGapZones struct {
	UpperZoneStart float64
	UpperZoneEnd   float64
	LowerZoneStart float64
	LowerZoneEnd   float64
}

// NewCriticalGapZones derives the two boundary zones from a range's high/low.
func NewCriticalGapZones(high, low float64) CriticalGapZones {
	width := high - low
	if width <= 0 {
		return CriticalGapZones{}
	}
	gap := width * criticalGapWidthFactor
	return CriticalGapZones{
		UpperZoneStart: high - gap,
		UpperZoneEnd:   high,
		LowerZoneStart: low,
		LowerZoneEnd:   low + gap,
	}
}

// Contains reports whether price falls inside either boundary zone.
func (z CriticalGapZones) Contains(price float64) bool {
	return (price >= z.UpperZoneStart && price <= z.UpperZoneEnd) ||
		(price >= z.LowerZoneStart && price <= z.LowerZoneEnd)
}

// RangeStructure is the central output of C3: a bounded price range plus
// the structural metadata the risk filter and strategy layers need to
// reason about it.
type RangeStructure struct {
	Symbol        string
	Timeframe     market.Timeframe
	Kind          Kind
	High          float64
	Low           float64
	Mid           float64
	FormedAt      time.Time
	LastUpdated   time.Time
	TouchesHigh   int
	TouchesLow    int
	Valid         bool
	Expanding     bool
	Invalidated   bool
	InvalidReason string
	GapZones      CriticalGapZones
	Nested        []*RangeStructure
}

// Width returns High-Low, or 0 if the range is degenerate.
func (r *RangeStructure) Width() float64 {
	if r == nil || r.High <= r.Low {
		return 0
	}
	return r.High - r.Low
}

// Contains reports whether price lies within [Low, High] inclusive.
func (r *RangeStructure) Contains(price float64) bool {
	return r != nil && price >= r.Low && price <= r.High
}
