package risk

import "math"

// Confluence component thresholds, mined verbatim from the Python
// original's check_3_confluence_rule_weighted (spec §4.4).
const (
	minTouchesForFullStructure = 3
	minTouchesForPartial       = 2
	partialStructureFactor     = 0.7

	locationATRThreshold        = 0.75
	locationATRPartialThreshold = locationATRThreshold * 0.5
	partialLocationFactor       = 0.6
)

// ConfirmationSignals are the three independent confirmation checks spec
// §4.4 names: any one present earns the full confirmation score.
type ConfirmationSignals struct {
	RSIExtreme    bool
	RejectionWick bool
	TapePressure  bool
}

// Any reports whether at least one confirmation signal fired.
func (c ConfirmationSignals) Any() bool {
	return c.RSIExtreme || c.RejectionWick || c.TapePressure
}

// ConfluenceInputs are the raw facts ScoreConfluence needs to derive spec
// §4.4's three components: structure (touch count), location (distance
// from range mid in ATR, critical-gap membership, PDH/PDL membership), and
// confirmation (RSI/wick/tape-pressure signals).
type ConfluenceInputs struct {
	TotalTouches int
	Price        float64
	Range        *RangeStructure
	ATR          float64
	AtPDH        bool
	AtPDL        bool
	Confirmation ConfirmationSignals
}

// ConfluenceBreakdown is the per-component score ScoreConfluence produces,
// plus which components fell short of a full score (spec §4.4's "missing"
// list, surfaced for diagnostics/logging).
type ConfluenceBreakdown struct {
	Structure    float64
	Location     float64
	Confirmation float64
	Missing      []string
}

// Total returns the sum of the three component scores, on the same 0-100
// scale as ConfluenceWeights.
func (b ConfluenceBreakdown) Total() float64 {
	return b.Structure + b.Location + b.Confirmation
}

// ScoreConfluence implements spec §4.4's weighted 3-confluence rule:
//   - structure: full weight at >= 3 total touches, 70% at exactly 2, else 0.
//   - location: full weight when price sits >= 0.75 ATR from the range mid,
//     OR inside either critical-gap zone, OR at PDH/PDL; 60% weight at >=
//     0.375 ATR from mid; else 0.
//   - confirmation: full weight if any of RSIExtreme/RejectionWick/
//     TapePressure fired, else 0.
func ScoreConfluence(in ConfluenceInputs, w ConfluenceWeights) ConfluenceBreakdown {
	var out ConfluenceBreakdown

	switch {
	case in.TotalTouches >= minTouchesForFullStructure:
		out.Structure = w.Structure
	case in.TotalTouches >= minTouchesForPartial:
		out.Structure = w.Structure * partialStructureFactor
	default:
		out.Missing = append(out.Missing, "structure")
	}

	atrDistance := 0.0
	if in.Range != nil && in.ATR > 0 {
		atrDistance = math.Abs(in.Price-in.Range.Mid) / in.ATR
	}
	inCriticalGap := in.Range != nil && in.Range.GapZones.Contains(in.Price)
	switch {
	case atrDistance >= locationATRThreshold || inCriticalGap || in.AtPDH || in.AtPDL:
		out.Location = w.Location
	case atrDistance >= locationATRPartialThreshold:
		out.Location = w.Location * partialLocationFactor
	default:
		out.Missing = append(out.Missing, "location")
	}

	if in.Confirmation.Any() {
		out.Confirmation = w.Confirmation
	} else {
		out.Missing = append(out.Missing, "confirmation")
	}

	return out
}

// ConfluenceGate rejects candidates whose total confluence score (0-100)
// falls below minScore (spec §4.4's gate, default >= 80).
func ConfluenceGate(total, minScore float64) (bool, string) {
	if total < minScore {
		return false, "confluence: score below minimum"
	}
	return true, ""
}
