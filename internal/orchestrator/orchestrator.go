package orchestrator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rangescalp/engine/internal/candle"
	"github.com/rangescalp/engine/internal/config"
	"github.com/rangescalp/engine/internal/indicators"
	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/mtf"
	"github.com/rangescalp/engine/internal/rangedetect"
	"github.com/rangescalp/engine/internal/risk"
	"github.com/rangescalp/engine/internal/scorer"
	"github.com/rangescalp/engine/internal/session"
	"github.com/rangescalp/engine/internal/strategy"
	"github.com/rangescalp/engine/internal/structure"
)

const (
	minCandlesDefault  = 50
	emaTrendPeriod     = 50
	atrPeriod          = 14
	trendToleranceATR  = 0.3
	swingFractalK      = 3

	pdhpdlTolerancePct     = 0.001
	rsiExtremeLow          = 30.0
	rsiExtremeHigh         = 70.0
	rejectionWickThreshold = 0.4
	tapePressureThreshold  = 0.6
)

// analysisTimeframes are every timeframe the orchestrator pulls a window
// for on each call (spec §1: M5, M15, M30, H1, H4).
var analysisTimeframes = []market.Timeframe{market.M5, market.M15, market.M30, market.H1, market.H4}

// Pipeline is C11: it owns every dependency Analyse needs to run the full
// candle -> structure/indicators -> range -> risk -> strategy -> scorer
// sequence for one symbol (spec §4.10). A single Pipeline is safe for
// concurrent use across symbols since every downstream layer it calls is
// either pure or independently synchronized (internal/candle.Source,
// internal/mtf.Analyzer).
type Pipeline struct {
	Source       *candle.Source
	MainCfg      config.MainConfig
	RRCfg        config.RiskRewardConfig
	ExitCfg      config.ExitConfig
	Weights      config.WeightTables
	ConfluenceW  risk.ConfluenceWeights
	MTF          *mtf.Analyzer
	MinCandles   int
}

// windowSet bundles the fetched window + freshness report for one
// timeframe, so the rest of Analyse never has to re-derive either.
type windowSet struct {
	result candle.Result
	fresh  risk.FreshnessReport
	err    error
}

// Analyse runs the full C11 pipeline for symbol at now and returns the
// assembled AnalysisResult (spec §4.10). It never returns an error for a
// data or filter problem — those degrade to a non-trade result carrying
// Warnings, per spec §7; the returned error is reserved for a context
// cancellation during the initial candle fetch.
func (p *Pipeline) Analyse(ctx context.Context, symbol string, now time.Time, strategyFilter *strategy.Name) (AnalysisResult, error) {
	minCandles := p.MinCandles
	if minCandles <= 0 {
		minCandles = minCandlesDefault
	}
	sess := session.Classify(now)

	windows := make(map[market.Timeframe]windowSet, len(analysisTimeframes))
	for _, tf := range analysisTimeframes {
		n := minCandles
		res, err := p.Source.Latest(ctx, symbol, tf, n, now)
		ws := windowSet{result: res, err: err}
		if err == nil {
			ws.fresh = risk.FreshnessReport{
				Tier:      risk.DataSourceTier(res.Tier),
				Age:       res.Age,
				Threshold: tf.FreshnessThreshold(),
			}
		}
		windows[tf] = ws
		if ctx.Err() != nil {
			return AnalysisResult{}, fmt.Errorf("orchestrator: %w", ctx.Err())
		}
	}

	m5 := windows[market.M5]
	if m5.err != nil {
		return nonTrade(symbol, now, sess, "data_source_unavailable: "+m5.err.Error()), nil
	}
	if m5.result.Window.Len() < minCandles {
		return nonTrade(symbol, now, sess, "data_quality: fewer than min_candles available for M5"), nil
	}

	var warnings []string
	for _, tf := range analysisTimeframes {
		ws := windows[tf]
		if ws.err != nil {
			warnings = append(warnings, fmt.Sprintf("data_source_unavailable: %s: %v", tf, ws.err))
			continue
		}
		if !ws.fresh.Fresh() {
			warnings = append(warnings, fmt.Sprintf("data_stale_warning: %s age %s exceeds threshold %s", tf, ws.fresh.Age, ws.fresh.Threshold))
		}
	}

	m5Candles := m5.result.Window.Candles
	closes5 := closesOf(m5Candles)
	atr5 := indicators.ATR(m5Candles, atrPeriod)
	rsi5 := indicators.RSI(closes5, atrPeriod)
	stoch5 := indicators.Stochastic(m5Candles, 14, 3)
	boll5 := indicators.Bollinger(closes5, 20, 2)
	vwap5 := indicators.VWAP(m5Candles)
	vwapMomentum := indicators.VWAPMomentumATRPerBar(m5Candles, atr5, 5)
	last5 := m5Candles[len(m5Candles)-1]
	effectiveATR := indicators.EffectiveATR(atr5, boll5.Width, 1.0)

	var adxH1 indicators.ADXResult
	if h1 := windows[market.H1]; h1.err == nil {
		adxH1 = indicators.ADX(h1.result.Window.Candles, atrPeriod)
	}

	// Range detection: session -> daily -> dynamic, first success wins
	// (spec §4.10 step 3).
	primary := p.detectRange(symbol, sess, windows, atr5)
	if primary == nil {
		return nonTrade(symbol, now, sess, "range_detection_fails: no range could be constructed"), nil
	}

	barsSinceTouch := barsSinceLastTouch(primary, m5Candles, atr5)
	rangedetect.ApplyTouches(primary, m5Candles, atr5)
	rangedetect.ApplyValidity(primary, m5Candles, atr5)
	historicalATR := historicalATRAverage(m5Candles, atrPeriod)
	rangedetect.ApplyExpansion(primary, atr5, historicalATR)
	rangedetect.ApplyInvalidation(primary, barsSinceTouch, now, atr5)

	h1Range, m15Range := p.buildNestedChain(symbol, windows, primary)

	falseRange := rangedetect.DetectFalseRange(primary, m5Candles)

	sweep := structure.DetectAndValidateSweep(m5Candles, atr5)
	swings := structure.DetectSwingsK(m5Candles, swingFractalK)
	labeledSwings := structure.LabelSwings(swings)
	bosChoch := structure.DetectBOSCHOCH(labeledSwings, last5.Close, atr5, 0)
	wickAsym := structure.WickAsymmetry(last5)

	pdh, pdl, havePDHPDL := previousDayExtremes(windows[market.H1].result.Window.Candles, now)

	baseInput := risk.Input{
		Now:               now,
		Freshness:         m5.fresh,
		Range:             primary,
		H1Range:           h1Range,
		M15Range:          m15Range,
		Price:             last5.Close,
		FalseRange:        falseRange,
		ConfluenceWeights: p.ConfluenceW,
		MinConfluence:     p.MainCfg.RiskFilters.ConfluenceMinScore,
		BlackoutHoursUTC:  p.MainCfg.RiskFilters.SessionBlackoutHours,
		ATR:               effectiveATR,
		MinATR:            p.MainCfg.RiskFilters.MinTradeActivityATR,
	}

	cvd := rangedetect.CVDDivergenceStrength(m5Candles)
	baseInput.Confluence = risk.ConfluenceInputs{
		TotalTouches: primary.TouchesHigh + primary.TouchesLow,
		Price:        last5.Close,
		Range:        primary,
		ATR:          effectiveATR,
		AtPDH:        havePDHPDL && nearLevel(last5.Close, pdh, pdhpdlTolerancePct),
		AtPDL:        havePDHPDL && nearLevel(last5.Close, pdl, pdhpdlTolerancePct),
		Confirmation: risk.ConfirmationSignals{
			RSIExtreme:    rsi5 <= rsiExtremeLow || rsi5 >= rsiExtremeHigh,
			RejectionWick: math.Abs(wickAsym) >= rejectionWickThreshold,
			TapePressure:  math.Abs(cvd) >= tapePressureThreshold,
		},
	}

	// Strategy engine (C6): run every evaluator over the same shared
	// context (spec §4.10 step 6).
	var signals []strategy.EntrySignal
	if s, ok := strategy.VWAPMeanReversionSignal(last5.Close, vwap5, atr5, vwapMomentum, rrMultiple(p.RRCfg, strategy.VWAPMeanReversion, false), rrMultiple(p.RRCfg, strategy.VWAPMeanReversion, true)); ok {
		signals = append(signals, s)
	}
	if s, ok := strategy.BollingerFadeSignal(last5.Close, boll5.Upper, boll5.Mid, boll5.Lower, atr5, rrMultiple(p.RRCfg, strategy.BollingerFade, false), rrMultiple(p.RRCfg, strategy.BollingerFade, true)); ok {
		signals = append(signals, s)
	}
	if havePDHPDL {
		if s, ok := strategy.PDHPDLRejectionSignal(last5, pdh, pdl, atr5, rrMultiple(p.RRCfg, strategy.PDHPDLRejection, false), rrMultiple(p.RRCfg, strategy.PDHPDLRejection, true)); ok {
			signals = append(signals, s)
		}
	}
	if len(closes5) >= 2 {
		prevRSI := indicators.RSI(closes5[:len(closes5)-1], atrPeriod)
		if s, ok := strategy.RSIBounceSignal(prevRSI, rsi5, last5.Close, atr5, rrMultiple(p.RRCfg, strategy.RSIBounce, false), rrMultiple(p.RRCfg, strategy.RSIBounce, true)); ok {
			signals = append(signals, s)
		}
	}
	if s, ok := strategy.LiquiditySweepReversalSignal(sweep, last5.Close, atr5, rrMultiple(p.RRCfg, strategy.LiquiditySweepReversal, false), rrMultiple(p.RRCfg, strategy.LiquiditySweepReversal, true)); ok {
		signals = append(signals, s)
	}

	regime := scorer.ClassifyRegime(adxH1.ADX)
	tfWeight := p.Weights.Timeframes[string(market.M5)]
	if tfWeight == 0 {
		tfWeight = 1.0
	}

	readings := p.mtfReadings(windows)

	var scores []scorer.StrategyScore
	var bestAssessment risk.Assessment
	haveAssessment := false
	for _, sig := range signals {
		if strategyFilter != nil && sig.Strategy != *strategyFilter {
			continue
		}
		in := baseInput
		in.Long = sig.Long
		assessment := risk.Evaluate(in)
		if !haveAssessment || (assessment.Passed && !bestAssessment.Passed) {
			bestAssessment, haveAssessment = assessment, true
		}
		if !assessment.Passed {
			continue
		}

		regimeWeight := p.regimeWeight(regime, sig.Strategy)
		orderFlow := orderFlowConfirmation(sig.Long, cvd)
		score := scorer.Score(scorer.ScoreInputs{
			Signal:           sig,
			MTFAlignment:     mtf.AlignmentScore(sig.Long, readings),
			OrderFlowConfirm: orderFlow,
			SessionScore:     session.Score(sig.Strategy, sess),
			Regime:           regime,
			RegimeWeight:     regimeWeight,
			TimeframeWeight:  tfWeight,
		})
		scores = append(scores, score)
	}

	top := scorer.SelectTop2(scores)
	result := AnalysisResult{
		Symbol:            symbol,
		EvaluatedAt:       now,
		RangeDetected:     true,
		Range:             primary,
		RiskChecks:        bestAssessment,
		Candidates:        top,
		EarlyExitTriggers: invalidationBulletins(primary),
		SessionContext:    sess,
		Warnings:          warnings,
	}
	if len(top) > 0 {
		result.TopStrategy = &top[0]
	}
	return result, nil
}

func rrMultiple(cfg config.RiskRewardConfig, name strategy.Name, takeProfit bool) float64 {
	sl, tp := cfg.StopLossATRMultiple, cfg.TakeProfitATRMultiple
	if override, ok := cfg.PerStrategyOverride[string(name)]; ok {
		sl, tp = override.StopLossATRMultiple, override.TakeProfitATRMultiple
	}
	if takeProfit {
		return tp
	}
	return sl
}

func (p *Pipeline) regimeWeight(regime scorer.Regime, name strategy.Name) float64 {
	byStrategy, ok := p.Weights.Regimes[string(regime)]
	if !ok {
		return 1.0
	}
	w, ok := byStrategy[string(name)]
	if !ok {
		return 1.0
	}
	return w
}

func orderFlowConfirmation(long bool, cvd float64) float64 {
	agrees := (long && cvd > 0) || (!long && cvd < 0)
	if agrees {
		return 0.5 + 0.5*math.Abs(cvd)
	}
	return 0.5 - 0.5*math.Abs(cvd)
}

// nearLevel reports whether price sits within tolerancePct of level (spec
// §4.4's PDH/PDL membership check for the confluence location component).
func nearLevel(price, level, tolerancePct float64) bool {
	if level == 0 {
		return false
	}
	return math.Abs(price-level)/level <= tolerancePct
}

func closesOf(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// historicalATRAverage computes the mean ATR over a 20-bar window ending
// 20 bars before the latest candle (spec §4.2's expansion-state baseline):
// the average of the ATR(n) readings at each bar of that window.
func historicalATRAverage(candles []market.Candle, n int) float64 {
	const lookback = 20
	if len(candles) < 2*lookback+n {
		return 0
	}
	end := len(candles) - lookback
	sum := 0.0
	for i := end - lookback; i < end; i++ {
		sum += indicators.ATR(candles[:i+1], n)
	}
	return sum / lookback
}

// barsSinceLastTouch walks candles from the end backward until it finds a
// bar touching either boundary, returning how many bars have elapsed since.
func barsSinceLastTouch(r *rangedetect.RangeStructure, candles []market.Candle, atr float64) int {
	if r == nil || atr <= 0 {
		return len(candles)
	}
	tol := 0.1 * atr
	for i := len(candles) - 1; i >= 0; i-- {
		c := candles[i]
		if c.High >= r.High-tol || c.Low <= r.Low+tol {
			return len(candles) - 1 - i
		}
	}
	return len(candles)
}

// invalidationBulletins renders r's invalidation reason as human-readable
// bullet points (spec §6's analysis output "early_exit_triggers").
func invalidationBulletins(r *rangedetect.RangeStructure) []string {
	if r == nil || !r.Invalidated {
		return nil
	}
	return []string{"range invalidated: " + r.InvalidReason}
}
