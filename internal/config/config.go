// Package config loads and validates the engine's three JSON configuration
// documents (main, risk:reward, exit) as explicit typed structs — never
// dynamically-keyed maps for the values the engine actually consumes,
// per spec.md §9's own design note — and computes the content hash used to
// detect drift between a running engine and its on-disk config, the same
// pattern as the teacher's internal/application/pairs_sync.go
// calculateConfigHash and the Python original's
// config/range_scalping_config_loader.py.
package config

import (
	"fmt"
)

// MainConfig is the top-level engine configuration: which symbols/
// timeframes to analyse and which pipeline stages are enabled.
type MainConfig struct {
	Symbols             []string          `json:"symbols"`
	Timeframes          []string          `json:"timeframes"`
	RangeDetection      RangeDetectionCfg `json:"range_detection"`
	RiskFilters         RiskFiltersCfg    `json:"risk_filters"`
	DynamicWeighting    WeightingCfg      `json:"dynamic_strategy_weighting"`
	Version             string            `json:"_version,omitempty"`
}

// RangeDetectionCfg tunes C3's range construction and invalidation.
type RangeDetectionCfg struct {
	MinRangeWidthATR    float64 `json:"min_range_width_atr"`
	StaleBars           int     `json:"stale_bars"`
	ExpansionATRFactor  float64 `json:"expansion_atr_factor"`
}

// RiskFiltersCfg toggles and tunes C5's filter pipeline.
type RiskFiltersCfg struct {
	DataQualityEnabled   bool    `json:"data_quality_enabled"`
	ConfluenceMinScore   float64 `json:"confluence_min_score"`
	SessionBlackoutHours []int   `json:"session_blackout_hours"`
	MinTradeActivityATR  float64 `json:"min_trade_activity_atr"`
}

// WeightingCfg is the JSON override layer merged over the embedded YAML
// default regime/strategy weight tables (see weights.go).
type WeightingCfg struct {
	Enabled  bool                          `json:"enabled"`
	Override map[string]map[string]float64 `json:"override,omitempty"`
}

// Validate checks MainConfig for the structural errors the Python original
// rejected at load time: empty symbol/timeframe lists, non-positive
// thresholds, out-of-range blackout hours.
func (c MainConfig) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("config: symbols must not be empty")
	}
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("config: timeframes must not be empty")
	}
	if c.RangeDetection.MinRangeWidthATR <= 0 {
		return fmt.Errorf("config: range_detection.min_range_width_atr must be > 0")
	}
	if c.RangeDetection.StaleBars <= 0 {
		return fmt.Errorf("config: range_detection.stale_bars must be > 0")
	}
	if c.RiskFilters.ConfluenceMinScore < 0 || c.RiskFilters.ConfluenceMinScore > 100 {
		return fmt.Errorf("config: risk_filters.confluence_min_score must be in [0,100]")
	}
	for _, h := range c.RiskFilters.SessionBlackoutHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("config: risk_filters.session_blackout_hours entry %d out of range [0,23]", h)
		}
	}
	return nil
}

// RiskRewardConfig holds per-strategy stop-loss/take-profit ATR multipliers
// (spec §4.6/§4.7: every strategy computes SL/TP from ATR, not fixed pips).
type RiskRewardConfig struct {
	StopLossATRMultiple   float64            `json:"stop_loss_atr_multiple"`
	TakeProfitATRMultiple float64            `json:"take_profit_atr_multiple"`
	PerStrategyOverride   map[string]RRPair  `json:"per_strategy_override,omitempty"`
	Version               string            `json:"_version,omitempty"`
}

// RRPair overrides the default SL/TP ATR multiples for one named strategy.
type RRPair struct {
	StopLossATRMultiple   float64 `json:"stop_loss_atr_multiple"`
	TakeProfitATRMultiple float64 `json:"take_profit_atr_multiple"`
}

// Validate checks RiskRewardConfig's multiples are positive and TP > SL
// (a reward:risk ratio below 1:1 is rejected at load time, matching the
// Python original's loader guard).
func (c RiskRewardConfig) Validate() error {
	if c.StopLossATRMultiple <= 0 || c.TakeProfitATRMultiple <= 0 {
		return fmt.Errorf("config: stop_loss/take_profit atr multiples must be > 0")
	}
	if c.TakeProfitATRMultiple <= c.StopLossATRMultiple {
		return fmt.Errorf("config: take_profit_atr_multiple must exceed stop_loss_atr_multiple")
	}
	for name, pair := range c.PerStrategyOverride {
		if pair.StopLossATRMultiple <= 0 || pair.TakeProfitATRMultiple <= 0 {
			return fmt.Errorf("config: per_strategy_override[%s]: multiples must be > 0", name)
		}
	}
	return nil
}

// ExitConfig holds the exit manager's priority-ladder thresholds, mined
// verbatim from the Python original's check_early_exit_conditions
// (infra/range_scalping_exit_manager.py) and spec §4.8's numeric triggers.
type ExitConfig struct {
	HighInvalidationProfitR float64 `json:"high_invalidation_profit_r"`
	BBExpansionProfitR      float64 `json:"bb_expansion_profit_r"`
	BreakevenTriggerR       float64 `json:"breakeven_trigger_r"`
	BreakevenMaxMinutes     float64 `json:"breakeven_max_minutes"`
	BreakevenBufferATR      float64 `json:"breakeven_buffer_atr"`
	StagnationMinutes       float64 `json:"stagnation_minutes"`
	StagnationProfitRBand   float64 `json:"stagnation_profit_r_band"`
	CVDDivergenceMin        float64 `json:"cvd_divergence_min"`
	CVDMinProfitR           float64 `json:"cvd_min_profit_r"`
	TapePressureShiftMin    float64 `json:"tape_pressure_shift_min"`
	TapePressureMinProfitR  float64 `json:"tape_pressure_min_profit_r"`
	ReentryCooldownMinutes  float64 `json:"reentry_cooldown_minutes"`
	Version                 string  `json:"_version,omitempty"`
}

// DefaultExitConfig returns spec §4.8's priority-ladder thresholds: 0.8R
// invalidation-flag profit ceiling, 0.3R BB-expansion profit ceiling, 0.5R
// breakeven trigger within 30 minutes, 0.1*ATR breakeven buffer, 60-minute
// stagnation window with a 0.3R profit band, 0.7 CVD-divergence floor with a
// 0.1R minimum profit, 0.6 tape-pressure-shift floor with a 0.6R minimum
// profit for the exit-at-profit branch, and a 15-minute re-entry cooldown.
func DefaultExitConfig() ExitConfig {
	return ExitConfig{
		HighInvalidationProfitR: 0.8,
		BBExpansionProfitR:      0.3,
		BreakevenTriggerR:       0.5,
		BreakevenMaxMinutes:     30,
		BreakevenBufferATR:      0.1,
		StagnationMinutes:       60,
		StagnationProfitRBand:   0.3,
		CVDDivergenceMin:        0.7,
		CVDMinProfitR:           0.1,
		TapePressureShiftMin:    0.6,
		TapePressureMinProfitR:  0.6,
		ReentryCooldownMinutes:  15,
	}
}

// Validate checks that ExitConfig's time windows and profit triggers are
// positive, its CVD/tape-pressure floors lie in [0,1], the re-entry cooldown
// is non-negative, and the stagnation window is not shorter than the
// breakeven window. The remaining fields are not checked.
func (c ExitConfig) Validate() error {
	if c.StagnationMinutes <= 0 || c.BreakevenMaxMinutes <= 0 {
		return fmt.Errorf("config: stagnation_minutes/breakeven_max_minutes must be > 0")
	}
	if c.StagnationMinutes < c.BreakevenMaxMinutes {
		return fmt.Errorf("config: stagnation_minutes must not be less than breakeven_max_minutes")
	}
	if c.HighInvalidationProfitR <= 0 || c.BBExpansionProfitR <= 0 || c.BreakevenTriggerR <= 0 {
		return fmt.Errorf("config: high_invalidation_profit_r/bb_expansion_profit_r/breakeven_trigger_r must be > 0")
	}
	if c.CVDDivergenceMin < 0 || c.CVDDivergenceMin > 1 {
		return fmt.Errorf("config: cvd_divergence_min must be in [0,1]")
	}
	if c.TapePressureShiftMin < 0 || c.TapePressureShiftMin > 1 {
		return fmt.Errorf("config: tape_pressure_shift_min must be in [0,1]")
	}
	if c.ReentryCooldownMinutes < 0 {
		return fmt.Errorf("config: reentry_cooldown_minutes must be >= 0")
	}
	return nil
}
