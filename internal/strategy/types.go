// Package strategy implements C6: the five range-scalping entry
// strategies, each a pure function from market context to an optional
// EntrySignal. Strategies never see each other; C7 (internal/scorer) is
// the only component that compares their outputs.
package strategy

import (
	"github.com/rangescalp/engine/internal/market"
)

// Candle aliases market.Candle for signature readability.
type Candle = market.Candle

// Name identifies one of the five strategies.
type Name string

const (
	VWAPMeanReversion     Name = "vwap_mean_reversion"
	BollingerFade         Name = "bollinger_fade"
	PDHPDLRejection       Name = "pdh_pdl_rejection"
	RSIBounce             Name = "rsi_bounce"
	LiquiditySweepReversal Name = "liquidity_sweep_reversal"
)

// EntrySignal is a single strategy's proposed trade (spec §4.6): direction,
// entry/stop/target prices, and a raw confidence the strategy itself
// assigns (C7 re-weights this, it does not take it as final).
type EntrySignal struct {
	Strategy   Name
	Long       bool
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	Confidence float64 // 0-100, the strategy's own self-assessment
	Reason     string
}

// RiskReward computes SL/TP from entry/ATR using the given multiples
// (spec §4.6/§4.7: every strategy derives SL/TP from ATR, never fixed
// pips). long determines which side the stop sits on.
func RiskReward(entry, atr, slMultiple, tpMultiple float64, long bool) (stopLoss, takeProfit float64) {
	if long {
		return entry - slMultiple*atr, entry + tpMultiple*atr
	}
	return entry + slMultiple*atr, entry - tpMultiple*atr
}
