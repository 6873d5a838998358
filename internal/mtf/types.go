// Package mtf implements C8: the multi-timeframe analyzer. It maintains a
// short trend-memory buffer per timeframe so a single noisy bar cannot flip
// the "primary trend" label, locks a primary trend from the stabilized
// H4+H1 readings, and scores how well a candidate entry aligns with it.
package mtf

import "github.com/rangescalp/engine/internal/market"

// TrendDirection is one timeframe's current directional read.
type TrendDirection int

const (
	TrendNeutral TrendDirection = iota
	TrendUp
	TrendDown
)

// CounterTrendStrength buckets how strongly a candidate entry opposes the
// locked primary trend (spec §4.7): STRONG counter-trend entries get the
// heaviest risk discount, WEAK the lightest.
type CounterTrendStrength string

const (
	CounterTrendNone     CounterTrendStrength = "none"
	CounterTrendWeak     CounterTrendStrength = "weak"
	CounterTrendModerate CounterTrendStrength = "moderate"
	CounterTrendStrong   CounterTrendStrength = "strong"
)

// riskAdjustment maps CounterTrendStrength to the multiplier C7's final
// score (or C6's position sizing, depending on caller) should apply: a
// STRONG counter-trend entry is scaled to 50% weight, MODERATE to 75%,
// WEAK to 90%, none at full weight (spec §4.7's table).
var riskAdjustment = map[CounterTrendStrength]float64{
	CounterTrendNone:     1.00,
	CounterTrendWeak:     0.90,
	CounterTrendModerate: 0.75,
	CounterTrendStrong:   0.50,
}

// RiskAdjustment returns the weight multiplier for a given counter-trend
// strength bucket.
func RiskAdjustment(s CounterTrendStrength) float64 {
	return riskAdjustment[s]
}

// Reading is one timeframe's trend observation at a point in time.
type Reading struct {
	Timeframe market.Timeframe
	Direction TrendDirection
	ADX       float64
}
