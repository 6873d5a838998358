// Package risk implements C5, the risk filter pipeline: a sequence of
// independent pass/fail gates evaluated against a candidate symbol+range
// before any strategy is allowed to score an entry. Every gate is a pure
// function of its inputs, continuing internal/structure and
// internal/rangedetect's no-I/O texture one layer further up the stack.
package risk

import (
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/rangedetect"
)

// Candle aliases market.Candle for signature readability.
type Candle = market.Candle

// Assessment is the Pipeline's aggregate verdict: Passed is true only when
// every gate that ran returned Passed; Rejections names each gate that
// failed, in evaluation order, so callers/logs can see the whole picture
// rather than just the first failure.
type Assessment struct {
	Passed     bool
	Rejections []string
	Scores     map[string]float64
}

// DataSourceTier tags which fallback tier served a candle read, carried on
// FreshnessReport so the data-quality gate can report *which* path was
// stale (spec §4.4).
type DataSourceTier string

const (
	TierStreamerCache DataSourceTier = "streamer_cache"
	TierDiskStore     DataSourceTier = "disk_store"
	TierBrokerFetch   DataSourceTier = "broker_fetch"
)

// FreshnessReport is produced by internal/candle's fallback chain and
// consumed here; risk never performs I/O itself.
type FreshnessReport struct {
	Tier      DataSourceTier
	Age       time.Duration
	Threshold time.Duration
}

// Fresh reports whether the report's age is within its timeframe threshold.
func (f FreshnessReport) Fresh() bool {
	return f.Age <= f.Threshold
}

// ConfluenceWeights weights the three confluence components the scoring
// gate combines: structure (touch count), location (boundary/VWAP/PDH-PDL
// proximity), and confirmation (RSI/wick/tape signals). Spec §4.4 expresses
// these as points on a 0-100 scale, not fractions of 1 — the gate threshold
// is likewise 0-100 (check_3_confluence_rule_weighted's default weights).
type ConfluenceWeights struct {
	Structure    float64
	Location     float64
	Confirmation float64
}

// DefaultConfluenceWeights returns the Python original's default weighting:
// structure 40, location 35, confirmation 25 (sums to 100).
func DefaultConfluenceWeights() ConfluenceWeights {
	return ConfluenceWeights{Structure: 40, Location: 35, Confirmation: 25}
}

// RangeStructure is an alias so callers don't need to import rangedetect
// directly just to call risk functions.
type RangeStructure = rangedetect.RangeStructure
