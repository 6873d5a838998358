// Package scorer implements C7: turning each strategy's raw EntrySignal
// into a weighted StrategyScore and selecting the best candidates. It is
// the first component that compares strategies against each other rather
// than evaluating one in isolation.
package scorer

import "github.com/rangescalp/engine/internal/strategy"

// Regime is the ADX-bucketed volatility/trend regime the engine uses to
// weight strategies differently (spec §4.5): mean-reversion strategies
// score well in ranging, poorly in trending, conditions.
type Regime string

const (
	RegimeRanging      Regime = "ranging"
	RegimeTransitional Regime = "transitional"
	RegimeTrending     Regime = "trending"
)

// ClassifyRegime buckets an ADX reading into a Regime (spec §4.5's
// default thresholds: ADX < 20 ranging, 20-25 transitional, > 25 trending).
func ClassifyRegime(adx float64) Regime {
	switch {
	case adx < 20:
		return RegimeRanging
	case adx <= 25:
		return RegimeTransitional
	default:
		return RegimeTrending
	}
}

// StrategyScore is one strategy's final, weighted score plus the component
// points that produced it, so operators and tests can see why a strategy
// ranked where it did.
type StrategyScore struct {
	Signal          strategy.EntrySignal
	EntryPoints     float64
	MTFPoints       float64
	OrderFlowPoints float64
	SessionPoints   float64
	RegimeWeight    float64
	TimeframeWeight float64
	Total           float64
	Gated           bool
	GateReason      string
}
