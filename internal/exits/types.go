// Package exits implements C9: the exit manager. It tracks every actively
// monitored trade, evaluates a priority-ordered exit ladder against fresh
// market data on each tick, and persists its book durably so a process
// restart never loses track of a live position.
package exits

import (
	"time"

	"github.com/rangescalp/engine/internal/market"
)

// Priority orders exit reasons so a lower-priority condition never masks a
// higher one: CRITICAL conditions are checked first and, once true,
// short-circuit the rest of the ladder (spec §4.8).
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "none"
	}
}

// ActiveTrade is one ticket under exit management (spec §3/§6). Ticket is
// the broker-supplied position identifier; everything else is the context
// the exit ladder needs to evaluate without re-fetching it each tick.
type ActiveTrade struct {
	Ticket          int64            `json:"ticket"`
	Symbol          string           `json:"symbol"`
	StrategyID      string           `json:"strategy_id"`
	Timeframe       market.Timeframe `json:"timeframe"`
	Long            bool             `json:"long"`
	Entry           float64          `json:"entry"`
	StopLoss        float64          `json:"stop_loss"`
	TakeProfit      float64          `json:"take_profit"`
	ATR             float64          `json:"atr"`
	RangeHigh       float64          `json:"range_high"`
	RangeLow        float64          `json:"range_low"`
	OpenedAt        time.Time        `json:"entry_time"`
	LastRangeCheck  time.Time        `json:"last_range_check"`
	LastStateChange time.Time        `json:"last_state_change"`
	BreakevenMoved  bool             `json:"breakeven_moved"`
}

// RiskDistance returns the price distance between entry and the original
// stop-loss — the "1R" unit every threshold below is expressed in.
func (t ActiveTrade) RiskDistance() float64 {
	if t.Long {
		return t.Entry - t.StopLoss
	}
	return t.StopLoss - t.Entry
}

// CurrentR converts a current price into R-multiples of favorable (or
// adverse, if negative) excursion from entry.
func (t ActiveTrade) CurrentR(price float64) float64 {
	risk := t.RiskDistance()
	if risk <= 0 {
		return 0
	}
	if t.Long {
		return (price - t.Entry) / risk
	}
	return (t.Entry - price) / risk
}

// MinutesInTrade reports the elapsed minutes since OpenedAt, as of now.
func (t ActiveTrade) MinutesInTrade(now time.Time) float64 {
	return now.Sub(t.OpenedAt).Minutes()
}

// MarketData is the per-tick snapshot the exit ladder evaluates a trade
// against (spec §4.8): current price/time, the M15 BOS confirmation flag,
// the three range-invalidation flags, and the order-flow confirmation
// signals the lower-priority steps consume.
type MarketData struct {
	Now                 time.Time
	Price                float64
	MinutesInTrade       float64
	TakeProfitReached    bool
	M15BOSConfirmed      bool
	TwoBarsOutsideRange  bool
	VWAPMomentumHigh     bool
	BBWidthExpansion     bool
	CVDDivergence        float64 // 0-1
	TapePressureShift    float64 // 0-1
}

// Action is what the caller should do with an ExitSignal (spec §3).
type Action string

const (
	ActionNone              Action = ""
	ActionExitNow           Action = "exit_now"
	ActionExitAtProfit      Action = "exit_at_profit"
	ActionMoveSLToBreakeven Action = "move_sl_to_breakeven"
	ActionExitEarly         Action = "exit_early"
)

// ExitSignal is the ladder's verdict for one tick (spec §3/§4.8).
type ExitSignal struct {
	Action         Action
	Priority       Priority
	ReasonTag      string
	MinProfitR     *float64
	ExitAtProfitR  *float64
	Message        string
}

// ShouldExit reports whether sig carries an actionable close/breakeven
// instruction (spec §4.8's ladder always fires at most one action per tick).
func (sig ExitSignal) ShouldExit() bool {
	return sig.Action != ActionNone
}
