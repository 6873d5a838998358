// Package orchestrator implements C11: analyse(symbol) -> AnalysisResult,
// the top-level entry point that sequences the candle source, structure
// detectors, range detector, risk filter pipeline, strategy engine, and
// scorer into the single analysis call the rest of the system (CLI, exit
// manager registration, ops endpoints) drives (spec §4.10).
package orchestrator

import (
	"time"

	"github.com/rangescalp/engine/internal/rangedetect"
	"github.com/rangescalp/engine/internal/risk"
	"github.com/rangescalp/engine/internal/scorer"
	"github.com/rangescalp/engine/internal/session"
	"github.com/rangescalp/engine/internal/strategy"
)

// AnalysisResult is the orchestrator's return value (spec §6): every field
// a caller needs to decide whether, and how, to act on this analysis pass
// without re-deriving anything the pipeline already computed.
type AnalysisResult struct {
	Symbol            string
	EvaluatedAt        time.Time
	RangeDetected      bool
	Range              *rangedetect.RangeStructure
	RiskChecks         risk.Assessment
	TopStrategy        *scorer.StrategyScore
	Candidates         []scorer.StrategyScore
	EarlyExitTriggers  []string
	SessionContext     session.Name
	Warnings           []string
}

// nonTrade builds the non-trade result shape spec §7 requires analysis
// errors to degrade to: range_detected:false plus the warnings explaining
// why, never a hard error out of Analyse for a data problem.
func nonTrade(symbol string, now time.Time, sess session.Name, warnings ...string) AnalysisResult {
	return AnalysisResult{
		Symbol:         symbol,
		EvaluatedAt:    now,
		RangeDetected:  false,
		SessionContext: sess,
		Warnings:       warnings,
	}
}

// Candidate is one strategy's raw signal and supporting context bundled
// together before scoring, so the scoring loop does not need to re-derive
// per-strategy inputs (spec §4.5/§4.6).
type Candidate struct {
	Signal strategy.EntrySignal
}
