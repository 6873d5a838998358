// Package session classifies the current UTC time into a trading session
// and exposes the per-session scoring table C7 uses to weight a candidate
// signal by how favorable its session typically is, mirroring the Python
// original's SESSION_HOURS/session-liquidity tables (spec §4.10's "session
// start hour table" and §4.5's "session points ... per-strategy ×
// per-session table").
package session

import (
	"time"

	"github.com/rangescalp/engine/internal/strategy"
)

// Name identifies one of the four trading sessions the engine recognizes.
type Name string

const (
	Asian  Name = "asian"
	London Name = "london"
	NY     Name = "ny"
	LateNY Name = "late_ny"
)

// sessionStartHoursUTC gives each session's opening hour, used both to
// classify "now" and to pick a session-range start hour for session-kind
// range construction (spec §4.10 step 2).
var sessionStartHoursUTC = map[Name]int{
	Asian:  0,
	London: 7,
	NY:     13,
	LateNY: 18,
}

// Classify buckets now's UTC hour into the session whose start hour is the
// latest one not after it, wrapping around midnight (spec §4.10: "session
// start hour table" keyed by current UTC hour).
func Classify(now time.Time) Name {
	hour := now.UTC().Hour()
	best := LateNY
	bestStart := -1
	for name, start := range sessionStartHoursUTC {
		if start <= hour && start > bestStart {
			best, bestStart = name, start
		}
	}
	return best
}

// StartHourUTC returns the configured opening hour for name.
func StartHourUTC(name Name) int {
	return sessionStartHoursUTC[name]
}

// scoreTable is the per-strategy x per-session liquidity-favorability
// score (0-1) C7's SessionPoints scales into its 0-15 share. The VWAP,
// Bollinger and RSI strategies favor the quieter Asian/late-NY rotations;
// PDH/PDL rejection and sweep reversal favor the busier London and NY
// sessions. These scores are a soft preference; the hard gate is the risk
// filter's session blackout over the configured UTC hours.
var scoreTable = map[strategy.Name]map[Name]float64{
	strategy.VWAPMeanReversion: {Asian: 0.9, London: 0.5, NY: 0.4, LateNY: 0.8},
	strategy.BollingerFade:     {Asian: 0.85, London: 0.45, NY: 0.4, LateNY: 0.75},
	strategy.PDHPDLRejection:   {Asian: 0.6, London: 0.8, NY: 0.8, LateNY: 0.5},
	strategy.RSIBounce:         {Asian: 0.8, London: 0.5, NY: 0.45, LateNY: 0.7},
	strategy.LiquiditySweepReversal: {Asian: 0.55, London: 0.85, NY: 0.85, LateNY: 0.5},
}

// Score returns the 0-1 session-favorability score for strategyName during
// sess, defaulting to a neutral 0.5 for an unrecognized strategy.
func Score(strategyName strategy.Name, sess Name) float64 {
	byStrategy, ok := scoreTable[strategyName]
	if !ok {
		return 0.5
	}
	v, ok := byStrategy[sess]
	if !ok {
		return 0.5
	}
	return v
}
