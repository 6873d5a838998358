package risk

import "github.com/rangescalp/engine/internal/rangedetect"

const falseRangeRejectThreshold = 0.5

// FalseRangeGate rejects a candidate whose range has been flagged as a
// false range (one-sided order-flow absorption dressed up as two-sided
// consolidation, spec §4.2/§4.4) with divergence strength at or above
// falseRangeRejectThreshold — a mild divergence alone does not reject,
// only a strong one does.
func FalseRangeGate(fr rangedetect.FalseRange) (bool, string) {
	if fr.Found && fr.DivergenceStrength >= falseRangeRejectThreshold {
		return false, "false_range: order-flow imbalance exceeds threshold"
	}
	return true, ""
}
