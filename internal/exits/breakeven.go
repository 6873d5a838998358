package exits

import "github.com/rangescalp/engine/internal/config"

// zeroATRBreakevenFactor is the fallback buffer fraction of entry price the
// Python original uses when effective ATR is unavailable (entry_price *
// 0.0001), so a breakeven move is never skipped outright for want of ATR.
const zeroATRBreakevenFactor = 0.0001

// ComputeBreakevenStop returns the new stop-loss price once a trade has
// reached its breakeven trigger: entry plus (for longs) or minus (for
// shorts) a buffer of cfg.BreakevenBufferATR * ATR, so the stop sits just
// past true breakeven rather than exactly on it (spec §4.8, mined from the
// Python original's calculate_breakeven_stop). Falls back to a fraction of
// entry price when ATR is unavailable. Rejects (ok=false) when the computed
// stop would sit on the wrong side of currentPrice — moving the stop there
// would immediately trigger it, which calculate_breakeven_stop also refuses.
func ComputeBreakevenStop(trade ActiveTrade, cfg config.ExitConfig, currentPrice float64) (stop float64, ok bool) {
	buffer := cfg.BreakevenBufferATR * trade.ATR
	if trade.ATR <= 0 {
		buffer = zeroATRBreakevenFactor * trade.Entry
	}

	if trade.Long {
		stop = trade.Entry + buffer
		return stop, stop < currentPrice
	}
	stop = trade.Entry - buffer
	return stop, stop > currentPrice
}

// CanReenter implements spec §4.8's re-entry rule: stagnation_energy_loss
// and breakeven_retrace are always allowed (the range itself is still
// considered valid after either exit reason), range_invalidation is always
// blocked, and any other reason tag is allowed only once minutesSinceExit
// has reached cooldownMin (default 15).
func CanReenter(reasonTag string, minutesSinceExit, cooldownMin float64) bool {
	switch reasonTag {
	case "stagnation_energy_loss", "breakeven_retrace":
		return true
	case "range_invalidation":
		return false
	default:
		return minutesSinceExit >= cooldownMin
	}
}
