package risk

import (
	"time"

	"github.com/rangescalp/engine/internal/rangedetect"
)

// Input bundles everything the pipeline's gates need for one evaluation.
// Every field is precomputed by upstream components (internal/candle,
// internal/rangedetect, internal/indicators) — the pipeline performs no
// detection of its own, only gating.
type Input struct {
	Now               time.Time
	Freshness         FreshnessReport
	Range             *RangeStructure
	H1Range           *RangeStructure
	M15Range          *RangeStructure
	Price             float64
	FalseRange        rangedetect.FalseRange
	Confluence        ConfluenceInputs
	ConfluenceWeights ConfluenceWeights
	MinConfluence     float64
	BlackoutHoursUTC  []int
	ATR               float64
	MinATR            float64
	Long              bool
}

// Evaluate runs every gate in spec §4.4's order — data quality, confluence
// scoring, false range, session blackout, trade-activity floor, nested
// alignment — and returns the aggregate Assessment. Gates after a failure
// still run (so Rejections reports every problem, not just the first) but
// the caller should treat Passed=false as a hard stop regardless of which
// gates specifically failed.
func Evaluate(in Input) Assessment {
	result := Assessment{Passed: true, Scores: map[string]float64{}}

	reject := func(ok bool, reason string) {
		if !ok {
			result.Passed = false
			result.Rejections = append(result.Rejections, reason)
		}
	}

	reject(DataQualityGate(in.Freshness))

	breakdown := ScoreConfluence(in.Confluence, in.ConfluenceWeights)
	result.Scores["confluence"] = breakdown.Total()
	result.Scores["confluence_structure"] = breakdown.Structure
	result.Scores["confluence_location"] = breakdown.Location
	result.Scores["confluence_confirmation"] = breakdown.Confirmation
	reject(ConfluenceGate(breakdown.Total(), in.MinConfluence))

	reject(FalseRangeGate(in.FalseRange))
	reject(SessionBlackoutGate(in.Now, in.BlackoutHoursUTC))
	reject(TradeActivityFloorGate(in.ATR, in.MinATR))
	reject(NestedAlignmentGate(in.H1Range, in.M15Range, in.Range, in.Price, in.Long))

	return result
}
