// Package monitor implements C10: a single cooperative worker that ticks
// periodically over every actively monitored trade, recomputes its range
// invalidation and order-flow context, and drives C9's exit ladder (spec
// §4.9). There is exactly one Monitor per process; it never spawns
// concurrent monitor instances. Within a tick, tickets are processed one
// after another, and a failure or panic on one ticket never stops the rest
// from being processed.
package monitor

import (
	"context"
	"time"

	"github.com/rangescalp/engine/internal/candle"
	"github.com/rangescalp/engine/internal/exits"
	"github.com/rangescalp/engine/internal/indicators"
	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/metrics"
	"github.com/rangescalp/engine/internal/rangedetect"
	"github.com/rangescalp/engine/internal/structure"
	"github.com/rs/zerolog"
)

// DefaultPeriod is the tick interval spec §4.9 defaults to absent config.
const DefaultPeriod = 5 * time.Minute

const priceCandleCount = 60
const m15CandleCount = 30
const swingFractalK = 3
const atrPeriod = 14

// vwapMomentumATRThreshold is how many ATRs-per-bar of adverse VWAP drift
// spec §4.8's vwap_momentum_high invalidation flag requires.
const vwapMomentumATRThreshold = 0.5

// bbExpansionFactor is how far current Bollinger width must exceed its
// 20-bar-prior reading for the bb_width_expansion flag to fire.
const bbExpansionFactor = 1.3

// PositionChecker is the minimal broker surface the monitor needs beyond
// exits.Broker (spec §6's positions_get): whether ticket is still an open
// position, so a trade the broker already closed (manually, by a
// stop-out, or by an outside actor) gets unregistered rather than
// monitored forever.
type PositionChecker interface {
	PositionExists(ctx context.Context, ticket int64) (bool, error)
}

// Monitor is C10.
type Monitor struct {
	manager  *exits.Manager
	source   *candle.Source
	checker  PositionChecker
	period   time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Registry
}

// New constructs a Monitor. period <= 0 uses DefaultPeriod.
func New(manager *exits.Manager, source *candle.Source, checker PositionChecker, period time.Duration, logger zerolog.Logger, reg *metrics.Registry) *Monitor {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Monitor{manager: manager, source: source, checker: checker, period: period, logger: logger, metrics: reg}
}

// Run blocks, ticking every m.period until ctx is cancelled. Per tick, every
// ticket is processed independently and any error is caught, classified,
// and logged rather than aborting the loop (spec §4.9 step 3) — Run itself
// only returns when ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.tick(ctx, now)
		}
	}
}

// tick runs one full pass over the currently active tickets. It never
// returns an error: every failure is recorded through the error handler
// and logged, matching the Python original's monitor loop contract that a
// single bad ticket must never stall the rest.
func (m *Monitor) tick(ctx context.Context, now time.Time) {
	tickets := m.manager.ActiveTickets()
	if m.metrics != nil {
		m.metrics.ActiveTrades.Set(float64(len(tickets)))
	}

	for _, ticket := range tickets {
		m.tickOne(ctx, ticket, now)
	}
}

func (m *Monitor) tickOne(ctx context.Context, ticket int64, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Int64("ticket", ticket).Interface("panic", r).Msg("monitor: recovered panic processing ticket")
		}
	}()

	trade, ok := m.manager.Get(ticket)
	if !ok {
		return
	}

	exists, err := m.checker.PositionExists(ctx, ticket)
	if err != nil {
		m.logger.Warn().Err(err).Int64("ticket", ticket).Msg("monitor: position check failed, skipping tick")
		return
	}
	if !exists {
		if _, err := m.manager.Unregister(ticket); err != nil {
			m.logger.Error().Err(err).Int64("ticket", ticket).Msg("monitor: unregister after missing position failed")
		}
		return
	}

	res, err := m.source.Latest(ctx, trade.Symbol, market.M5, priceCandleCount, now)
	if err != nil {
		m.logger.Warn().Err(err).Int64("ticket", ticket).Str("symbol", trade.Symbol).Msg("monitor: candle fetch failed")
		return
	}
	candles := res.Window.Candles
	if len(candles) == 0 {
		return
	}
	price := candles[len(candles)-1].Close

	md := exits.MarketData{
		Now:                 now,
		Price:               price,
		MinutesInTrade:      now.Sub(trade.OpenedAt).Minutes(),
		TakeProfitReached:   takeProfitReached(trade, price),
		TwoBarsOutsideRange: twoBarsOutsideRange(trade, candles),
		VWAPMomentumHigh:    vwapMomentumHigh(trade, candles),
		BBWidthExpansion:    bbWidthExpanding(candles),
	}

	if m15Res, err := m.source.Latest(ctx, trade.Symbol, market.M15, m15CandleCount, now); err == nil {
		m15Candles := m15Res.Window.Candles
		md.M15BOSConfirmed = m15BOSConfirmed(m15Candles)
		cvd := rangedetect.CVDDivergenceStrength(m15Candles)
		md.CVDDivergence = adverseFlowStrength(trade.Long, cvd)
		md.TapePressureShift = md.CVDDivergence
	}

	sig, ok := m.manager.CheckExit(ticket, md)
	if !ok {
		return
	}
	if sig.Priority == exits.PriorityNone {
		return
	}

	if err := m.manager.Execute(ticket, sig, price); err != nil {
		m.logger.Error().Err(err).Int64("ticket", ticket).Str("reason_tag", sig.ReasonTag).Msg("monitor: exit dispatch failed")
		if m.metrics != nil {
			m.metrics.ExitDispatchTotal.WithLabelValues(sig.Priority.String(), "error").Inc()
		}
		return
	}
	m.logger.Info().Int64("ticket", ticket).Str("reason_tag", sig.ReasonTag).Str("priority", sig.Priority.String()).Msg("monitor: exit dispatched")
	if m.metrics != nil {
		m.metrics.ExitDispatchTotal.WithLabelValues(sig.Priority.String(), "ok").Inc()
	}
}

// takeProfitReached reports whether price has reached or passed trade's
// take-profit level, feeding the stagnation step's "TP not reached" guard.
func takeProfitReached(trade exits.ActiveTrade, price float64) bool {
	if trade.Long {
		return price >= trade.TakeProfit
	}
	return price <= trade.TakeProfit
}

// twoBarsOutsideRange reports whether the last two M5 candles both closed
// outside the trade's registered range (spec §4.8's two_bars_outside_range
// invalidation flag).
func twoBarsOutsideRange(trade exits.ActiveTrade, candles []market.Candle) bool {
	if len(candles) < 2 || trade.RangeHigh <= trade.RangeLow {
		return false
	}
	outside := func(c market.Candle) bool {
		return c.Close > trade.RangeHigh || c.Close < trade.RangeLow
	}
	last := candles[len(candles)-2:]
	return outside(last[0]) && outside(last[1])
}

// vwapMomentumHigh reports whether VWAP is drifting against the position
// faster than vwapMomentumATRThreshold ATRs per bar (spec §4.8's
// vwap_momentum_high invalidation flag).
func vwapMomentumHigh(trade exits.ActiveTrade, candles []market.Candle) bool {
	atr := indicators.ATR(candles, atrPeriod)
	if atr <= 0 {
		atr = trade.ATR
	}
	momentum := indicators.VWAPMomentumATRPerBar(candles, atr, 5)
	if trade.Long {
		return momentum <= -vwapMomentumATRThreshold
	}
	return momentum >= vwapMomentumATRThreshold
}

// bbWidthExpanding reports whether the current 20-bar Bollinger width has
// expanded beyond bbExpansionFactor times its reading 20 bars prior (spec
// §4.8's bb_width_expansion invalidation flag — the range's containment
// band is blowing out).
func bbWidthExpanding(candles []market.Candle) bool {
	const period = 20
	if len(candles) < 2*period {
		return false
	}
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	current := indicators.Bollinger(closes, period, 2).Width
	prior := indicators.Bollinger(closes[:len(closes)-period], period, 2).Width
	if prior <= 0 {
		return false
	}
	return current >= prior*bbExpansionFactor
}

// m15BOSConfirmed reports whether the M15 timeframe has a confirmed
// break-of-structure against the current close (spec §4.8's critical,
// unconditional m15_bos_confirmed step).
func m15BOSConfirmed(m15Candles []market.Candle) bool {
	if len(m15Candles) == 0 {
		return false
	}
	atr := indicators.ATR(m15Candles, atrPeriod)
	swings := structure.DetectSwingsK(m15Candles, swingFractalK)
	labeled := structure.LabelSwings(swings)
	last := m15Candles[len(m15Candles)-1]
	bos := structure.DetectBOSCHOCH(labeled, last.Close, atr, 0)
	return bos.HasBreak
}

// adverseFlowStrength returns the magnitude of cvd when it opposes the
// trade's direction, 0 when it agrees — the shared basis for both the CVD-
// divergence and tape-pressure-shift ladder steps (neither has a distinct
// order-flow data source in this pipeline, so both are grounded on the same
// cumulative-volume-delta read).
func adverseFlowStrength(long bool, cvd float64) float64 {
	agreesWithTrade := (long && cvd > 0) || (!long && cvd < 0)
	if agreesWithTrade {
		return 0
	}
	if cvd < 0 {
		cvd = -cvd
	}
	return cvd
}

