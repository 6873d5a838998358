package exits

import "github.com/rangescalp/engine/internal/config"

// CheckExit evaluates trade against md through spec §4.8's 7-step priority
// ladder and returns the first step that fires, highest priority first
// (grounded verbatim on the Python original's check_early_exit_conditions):
//
//  1. CRITICAL — M15 BOS confirmed: unconditional, checked first regardless
//     of current profit.
//  2. HIGH     — two bars outside the range, or VWAP momentum is running
//     high against the position, while profit is still below 0.8R.
//  3. MEDIUM   — Bollinger-band width expansion while profit is below 0.3R.
//  4. HIGH     — profit has reached 0.5R within the first 30 minutes: move
//     the stop to breakeven, or exit now if that move is rejected.
//  5. MEDIUM   — stagnation: 60+ minutes in trade, |profit| under 0.3R, and
//     the take-profit has not been reached.
//  6. LOW      — CVD divergence strength >= 0.7 with profit >= 0.1R: exit at
//     profit.
//  7. LOW      — tape-pressure shift >= 0.6: exit at profit if profit is
//     >= 0.6R, otherwise exit early.
//
// A lower-priority condition is never evaluated once a higher one has
// fired — the first match wins and the rest of the ladder is skipped.
func CheckExit(trade ActiveTrade, md MarketData, cfg config.ExitConfig) ExitSignal {
	currentR := trade.CurrentR(md.Price)

	if md.M15BOSConfirmed {
		return ExitSignal{
			Action:    ActionExitNow,
			Priority:  PriorityCritical,
			ReasonTag: "range_invalidation",
			Message:   "m15_bos_confirmed",
		}
	}

	if (md.TwoBarsOutsideRange || md.VWAPMomentumHigh) && currentR < cfg.HighInvalidationProfitR {
		msg := "vwap_momentum_high"
		if md.TwoBarsOutsideRange {
			msg = "two_bars_outside_range"
		}
		return ExitSignal{
			Action:    ActionExitNow,
			Priority:  PriorityHigh,
			ReasonTag: "range_invalidation",
			Message:   msg,
		}
	}

	if md.BBWidthExpansion && currentR < cfg.BBExpansionProfitR {
		return ExitSignal{
			Action:    ActionExitNow,
			Priority:  PriorityMedium,
			ReasonTag: "range_invalidation",
			Message:   "bb_width_expansion",
		}
	}

	if currentR >= cfg.BreakevenTriggerR && md.MinutesInTrade <= cfg.BreakevenMaxMinutes && !trade.BreakevenMoved {
		if _, ok := ComputeBreakevenStop(trade, cfg, md.Price); ok {
			return ExitSignal{
				Action:    ActionMoveSLToBreakeven,
				Priority:  PriorityHigh,
				ReasonTag: "breakeven_retrace",
				Message:   "profit reached 0.5R within 30 minutes",
			}
		}
		// The breakeven move was rejected (the computed stop would sit on
		// the wrong side of the current price) — the position's profit
		// cannot be protected with a stop move, so it exits outright
		// instead of risking it retracing all the way back to entry.
		return ExitSignal{
			Action:    ActionExitNow,
			Priority:  PriorityHigh,
			ReasonTag: "breakeven_retrace",
			Message:   "breakeven move rejected after reaching 0.5R within 30 minutes",
		}
	}

	if md.MinutesInTrade >= cfg.StagnationMinutes && absF(currentR) < cfg.StagnationProfitRBand && !md.TakeProfitReached {
		return ExitSignal{
			Action:    ActionExitNow,
			Priority:  PriorityMedium,
			ReasonTag: "stagnation_energy_loss",
			Message:   "no meaningful progress after stagnation window",
		}
	}

	if md.CVDDivergence >= cfg.CVDDivergenceMin && currentR >= cfg.CVDMinProfitR {
		r := cfg.CVDMinProfitR
		return ExitSignal{
			Action:        ActionExitAtProfit,
			Priority:      PriorityLow,
			ReasonTag:     "cvd_divergence",
			ExitAtProfitR: &r,
			Message:       "cumulative volume delta diverging against the position",
		}
	}

	if md.TapePressureShift >= cfg.TapePressureShiftMin {
		if currentR >= cfg.TapePressureMinProfitR {
			r := cfg.TapePressureMinProfitR
			return ExitSignal{
				Action:        ActionExitAtProfit,
				Priority:      PriorityLow,
				ReasonTag:     "tape_pressure_shift",
				ExitAtProfitR: &r,
				Message:       "tape pressure shifted against the position while profitable",
			}
		}
		return ExitSignal{
			Action:    ActionExitEarly,
			Priority:  PriorityLow,
			ReasonTag: "tape_pressure_shift",
			Message:   "tape pressure shifted against the position before profit target",
		}
	}

	return ExitSignal{Action: ActionNone, Priority: PriorityNone}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
