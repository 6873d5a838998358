package rangedetect

import (
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/structure"
)

const dynamicMinSwings = 2

// dynamicSwingFractalK is the fractal half-window BuildDynamicRange passes
// to structure.DetectSwingsK.
const dynamicSwingFractalK = 3

// BuildSessionRange derives a range from an explicit slice of candles
// belonging to one trading session. High/Low are the session's extremes.
func BuildSessionRange(symbol string, tf market.Timeframe, candles []Candle) *RangeStructure {
	return buildExtremeRange(symbol, tf, KindSession, candles)
}

// BuildDailyRange derives a range from a slice of candles spanning one
// trading day (UTC calendar day by convention; the caller owns the split).
func BuildDailyRange(symbol string, tf market.Timeframe, candles []Candle) *RangeStructure {
	return buildExtremeRange(symbol, tf, KindDaily, candles)
}

func buildExtremeRange(symbol string, tf market.Timeframe, kind Kind, candles []Candle) *RangeStructure {
	if len(candles) == 0 {
		return nil
	}
	hi, lo := candles[0].High, candles[0].Low
	for _, c := range candles[1:] {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	return &RangeStructure{
		Symbol:      symbol,
		Timeframe:   tf,
		Kind:        kind,
		High:        hi,
		Low:         lo,
		Mid:         (hi + lo) / 2,
		FormedAt:    candles[0].Timestamp,
		LastUpdated: candles[len(candles)-1].Timestamp,
		GapZones:    NewCriticalGapZones(hi, lo),
	}
}

// BuildDynamicRange derives a range from swing-point structure rather than a
// fixed session/day window: the high is the strongest (largest-count)
// equal-high swing cluster, or the most recent swing high if no cluster
// forms, and the low its swing-low counterpart, over the full supplied
// window. One swing of each kind is enough; it returns nil when either kind
// is missing or the high does not sit above the low.
func BuildDynamicRange(symbol string, tf market.Timeframe, candles []Candle, atr float64) *RangeStructure {
	if len(candles) == 0 || atr <= 0 {
		return nil
	}
	swings := structure.DetectSwingsK(candles, dynamicSwingFractalK)

	highCluster := structure.DetectEqualLevels(swings, structure.SwingHigh, atr, len(candles))
	lowCluster := structure.DetectEqualLevels(swings, structure.SwingLow, atr, len(candles))

	var hi, lo float64
	haveHi, haveLo := false, false

	if highCluster.Found {
		hi, haveHi = highCluster.Price, true
	} else if sh, ok := structure.LastSwingHigh(swings); ok {
		hi, haveHi = sh.Price, true
	}
	if lowCluster.Found {
		lo, haveLo = lowCluster.Price, true
	} else if sl, ok := structure.LastSwingLow(swings); ok {
		lo, haveLo = sl.Price, true
	}
	if !haveHi || !haveLo || hi <= lo {
		return nil
	}

	return &RangeStructure{
		Symbol:      symbol,
		Timeframe:   tf,
		Kind:        KindDynamic,
		High:        hi,
		Low:         lo,
		Mid:         (hi + lo) / 2,
		FormedAt:    formedAt(candles, swings),
		LastUpdated: candles[len(candles)-1].Timestamp,
		GapZones:    NewCriticalGapZones(hi, lo),
	}
}

// formedAt returns the timestamp of the earliest swing feeding the range, or
// the window's first candle if no swings were detected.
func formedAt(candles []Candle, swings []structure.Swing) time.Time {
	if len(swings) == 0 {
		return candles[0].Timestamp
	}
	earliest := swings[0].Index
	for _, s := range swings[1:] {
		if s.Index < earliest {
			earliest = s.Index
		}
	}
	return candles[earliest].Timestamp
}
