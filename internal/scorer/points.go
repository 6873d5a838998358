package scorer

// Component point bands (spec §4.5): each factor contributes up to a fixed
// share of the 100-point total before regime/timeframe weighting is
// applied. Weighting can push the weighted total above or below the
// unweighted 100, by design — it is a multiplier on quality, not a cap.
const (
	maxEntryPoints     = 40.0
	maxMTFPoints       = 25.0
	maxOrderFlowPoints = 20.0
	maxSessionPoints   = 15.0
)

// EntryPoints scales the strategy's own self-reported confidence (0-100)
// into its 0-40 share of the total.
func EntryPoints(confidence float64) float64 {
	return clamp01(confidence/100) * maxEntryPoints
}

// MTFPoints scales a multi-timeframe alignment score (0-1, from C8) into
// its 0-25 share.
func MTFPoints(alignmentScore float64) float64 {
	return clamp01(alignmentScore) * maxMTFPoints
}

// OrderFlowPoints scales an order-flow confirmation score (0-1 — e.g. 1
// minus the false-range divergence strength measured against this
// candidate's direction) into its 0-20 share.
func OrderFlowPoints(confirmationScore float64) float64 {
	return clamp01(confirmationScore) * maxOrderFlowPoints
}

// SessionPoints scales a session-liquidity score (0-1 — how favorable the
// current session's typical liquidity is for scalping) into its 0-15
// share.
func SessionPoints(sessionScore float64) float64 {
	return clamp01(sessionScore) * maxSessionPoints
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
