package orchestrator

import (
	"time"

	"github.com/rangescalp/engine/internal/indicators"
	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/mtf"
	"github.com/rangescalp/engine/internal/rangedetect"
	"github.com/rangescalp/engine/internal/session"
)

// detectRange tries session, then daily, then dynamic range construction
// against the fetched windows and returns the first that succeeds (spec
// §4.10 step 3, §4.2).
func (p *Pipeline) detectRange(symbol string, sess session.Name, windows map[market.Timeframe]windowSet, atr5 float64) *rangedetect.RangeStructure {
	m5 := windows[market.M5].result.Window.Candles

	if sessionCandles, ok := sessionSlice(m5, string(sess)); ok {
		if r := rangedetect.BuildSessionRange(symbol, market.M5, sessionCandles); r != nil && r.High > r.Low {
			return r
		}
	}

	if h1, ok := windows[market.H1]; ok && h1.err == nil {
		if prevDay, found := previousDaySlice(h1.result.Window.Candles); found {
			if r := rangedetect.BuildDailyRange(symbol, market.H1, prevDay); r != nil && r.High > r.Low {
				return r
			}
		}
	}

	return rangedetect.BuildDynamicRange(symbol, market.M5, m5, atr5)
}

// sessionSlice returns the candles from the current session's start hour
// (today, UTC) to the end of candles, or ok=false if no candle from today's
// session start is present in the window.
func sessionSlice(candles []market.Candle, sessName string) ([]market.Candle, bool) {
	if len(candles) == 0 {
		return nil, false
	}
	now := candles[len(candles)-1].Timestamp
	today := now.UTC().Truncate(24 * time.Hour)

	startHour := sessionStartHourFor(sessName)
	for i, c := range candles {
		ct := c.Timestamp.UTC()
		if !ct.Truncate(24 * time.Hour).Equal(today) {
			continue
		}
		if ct.Hour() >= startHour {
			return candles[i:], len(candles[i:]) >= 2
		}
	}
	return nil, false
}

func sessionStartHourFor(name string) int {
	switch name {
	case "asian":
		return 0
	case "london":
		return 7
	case "ny":
		return 13
	case "late_ny":
		return 18
	default:
		return 0
	}
}

// previousDaySlice returns the candles belonging to the UTC calendar day
// before the latest candle's day.
func previousDaySlice(candles []market.Candle) ([]market.Candle, bool) {
	if len(candles) == 0 {
		return nil, false
	}
	latestDay := candles[len(candles)-1].Timestamp.UTC().Truncate(24 * time.Hour)
	prevDay := latestDay.Add(-24 * time.Hour)

	start, end := -1, -1
	for i, c := range candles {
		d := c.Timestamp.UTC().Truncate(24 * time.Hour)
		if d.Equal(prevDay) {
			if start == -1 {
				start = i
			}
			end = i
		}
	}
	if start == -1 || end-start < 1 {
		return nil, false
	}
	return candles[start : end+1], true
}

// previousDayExtremes derives PDH/PDL from the previous UTC calendar day's
// H1 candles (spec §4.6/§9: adaptive PDH/PDL refresh operates on this
// same slice).
func previousDayExtremes(h1Candles []market.Candle, now time.Time) (pdh, pdl float64, ok bool) {
	prevDay, found := previousDaySlice(h1Candles)
	if !found {
		return 0, 0, false
	}
	pdh, pdl = prevDay[0].High, prevDay[0].Low
	for _, c := range prevDay[1:] {
		if c.High > pdh {
			pdh = c.High
		}
		if c.Low < pdl {
			pdl = c.Low
		}
	}
	return pdh, pdl, true
}

// buildNestedChain builds best-effort H1 and M15 dynamic ranges and nests
// H1 -> M15 -> primary, returning both so the nested-alignment gate can
// evaluate the full named hierarchy (spec §4.4: M5 nested in M15, M15
// nested in H1) rather than a single collapsed parent.
func (p *Pipeline) buildNestedChain(symbol string, windows map[market.Timeframe]windowSet, primary *rangedetect.RangeStructure) (h1Range, m15Range *rangedetect.RangeStructure) {
	h1ws, h1ok := windows[market.H1]
	m15ws, m15ok := windows[market.M15]

	if h1ok && h1ws.err == nil {
		atrH1 := indicators.ATR(h1ws.result.Window.Candles, atrPeriod)
		h1Range = rangedetect.BuildDynamicRange(symbol, market.H1, h1ws.result.Window.Candles, atrH1)
	}
	if m15ok && m15ws.err == nil {
		atrM15 := indicators.ATR(m15ws.result.Window.Candles, atrPeriod)
		m15Range = rangedetect.BuildDynamicRange(symbol, market.M15, m15ws.result.Window.Candles, atrM15)
	}

	if h1Range != nil && m15Range != nil {
		rangedetect.ApplyNesting(h1Range, []*rangedetect.RangeStructure{m15Range})
	}
	if m15Range != nil {
		rangedetect.ApplyNesting(m15Range, []*rangedetect.RangeStructure{primary})
	} else if h1Range != nil {
		rangedetect.ApplyNesting(h1Range, []*rangedetect.RangeStructure{primary})
	}
	return h1Range, m15Range
}

// mtfReadings derives a TrendDirection per available timeframe from its
// own EMA(50)/ATR(14), observes it into the analyzer's stabilization
// buffer, and returns the stabilized readings C7's alignment score
// consumes (spec §4.7).
func (p *Pipeline) mtfReadings(windows map[market.Timeframe]windowSet) []mtf.Reading {
	var out []mtf.Reading
	for _, tf := range analysisTimeframes {
		ws, ok := windows[tf]
		if !ok || ws.err != nil {
			continue
		}
		candles := ws.result.Window.Candles
		if len(candles) < emaTrendPeriod+1 {
			continue
		}
		closes := closesOf(candles)
		ema := indicators.EMA(closes, emaTrendPeriod)
		atr := indicators.ATR(candles, atrPeriod)
		adx := indicators.ADX(candles, atrPeriod)

		dir := mtf.TrendNeutral
		if ema != 0 {
			dir = mtf.DirectionFromEMA(candles[len(candles)-1].Close, ema, atr, trendToleranceATR)
		}
		p.MTF.Observe(tf, dir)
		stabilized := p.MTF.Stabilized(tf)
		out = append(out, mtf.Reading{Timeframe: tf, Direction: stabilized, ADX: adx.ADX})
	}
	return out
}
