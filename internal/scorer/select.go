package scorer

import (
	"sort"

	"github.com/rangescalp/engine/internal/strategy"
)

// trendingGateStrategies are mean-reversion strategies that ClassifyRegime
// == RegimeTrending gates out entirely rather than merely down-weights
// (spec §4.5): in a confirmed trend, fading the range is the lowest-quality
// setup the engine can take, so it is excluded from scoring rather than
// scored low and left to compete.
var trendingGateStrategies = map[strategy.Name]bool{
	strategy.VWAPMeanReversion: true,
	strategy.BollingerFade:     true,
	strategy.RSIBounce:         true,
}

// ScoreInputs bundles the per-strategy component scores (already computed
// by C6/C8/order-flow/session callers) plus the regime/timeframe weights
// resolved from the config weight tables (internal/config.WeightTables).
type ScoreInputs struct {
	Signal            strategy.EntrySignal
	MTFAlignment      float64
	OrderFlowConfirm  float64
	SessionScore      float64
	Regime            Regime
	RegimeWeight      float64
	TimeframeWeight   float64
}

// Score computes one strategy's full StrategyScore: component points,
// regime gating, and the final regime/timeframe-weighted total.
func Score(in ScoreInputs) StrategyScore {
	s := StrategyScore{
		Signal:          in.Signal,
		EntryPoints:     EntryPoints(in.Signal.Confidence),
		MTFPoints:       MTFPoints(in.MTFAlignment),
		OrderFlowPoints: OrderFlowPoints(in.OrderFlowConfirm),
		SessionPoints:   SessionPoints(in.SessionScore),
		RegimeWeight:    in.RegimeWeight,
		TimeframeWeight: in.TimeframeWeight,
	}

	if in.Regime == RegimeTrending && trendingGateStrategies[in.Signal.Strategy] {
		s.Gated = true
		s.GateReason = "mean-reversion strategy gated out in trending regime"
		return s
	}

	raw := s.EntryPoints + s.MTFPoints + s.OrderFlowPoints + s.SessionPoints
	s.Total = raw * in.RegimeWeight * in.TimeframeWeight
	return s
}

// SelectTop2 filters out gated scores and directly conflicting signals
// (opposite-direction candidates on the same underlying symbol/timeframe
// cannot both be taken — spec §4.5 keeps only the higher-scoring side),
// then returns up to the top 2 scores by Total, descending.
func SelectTop2(scores []StrategyScore) []StrategyScore {
	var live []StrategyScore
	for _, s := range scores {
		if !s.Gated {
			live = append(live, s)
		}
	}

	hasLong, hasShort := false, false
	for _, s := range live {
		if s.Signal.Long {
			hasLong = true
		} else {
			hasShort = true
		}
	}
	if hasLong && hasShort {
		bestLong, bestShort := bestOf(live, true), bestOf(live, false)
		if bestLong.Total >= bestShort.Total {
			live = keepDirection(live, true)
		} else {
			live = keepDirection(live, false)
		}
	}

	sort.Slice(live, func(i, j int) bool { return live[i].Total > live[j].Total })
	if len(live) > 2 {
		live = live[:2]
	}
	return live
}

func bestOf(scores []StrategyScore, long bool) StrategyScore {
	var best StrategyScore
	found := false
	for _, s := range scores {
		if s.Signal.Long == long && (!found || s.Total > best.Total) {
			best, found = s, true
		}
	}
	return best
}

func keepDirection(scores []StrategyScore, long bool) []StrategyScore {
	var out []StrategyScore
	for _, s := range scores {
		if s.Signal.Long == long {
			out = append(out, s)
		}
	}
	return out
}
