package orchestrator

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyCandles(start time.Time, n int, high, low float64) []market.Candle {
	candles := make([]market.Candle, n)
	ts := start
	for i := range candles {
		candles[i] = market.Candle{Timestamp: ts, Open: (high + low) / 2, High: high, Low: low, Close: (high + low) / 2, Volume: 1}
		ts = ts.Add(time.Hour)
	}
	return candles
}

func TestSessionSliceFindsTodaysSessionStart(t *testing.T) {
	today := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	candles := hourlyCandles(today, 24, 1, 0)
	slice, ok := sessionSlice(candles, "ny") // ny starts hour 13
	require.True(t, ok)
	assert.Equal(t, 13, slice[0].Timestamp.Hour())
}

func TestSessionSliceFalseWhenSessionNotYetStarted(t *testing.T) {
	today := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	candles := hourlyCandles(today, 5, 1, 0) // only hours 0-4
	_, ok := sessionSlice(candles, "late_ny") // starts hour 18
	assert.False(t, ok)
}

func TestSessionStartHourForKnownAndUnknown(t *testing.T) {
	assert.Equal(t, 0, sessionStartHourFor("asian"))
	assert.Equal(t, 7, sessionStartHourFor("london"))
	assert.Equal(t, 13, sessionStartHourFor("ny"))
	assert.Equal(t, 18, sessionStartHourFor("late_ny"))
	assert.Equal(t, 0, sessionStartHourFor("unknown"))
}

func TestPreviousDaySliceSplitsOnUTCCalendarDay(t *testing.T) {
	day1 := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	candles := append(hourlyCandles(day1, 24, 1, 0), hourlyCandles(day1.Add(24*time.Hour), 5, 1, 0)...)
	prev, ok := previousDaySlice(candles)
	require.True(t, ok)
	assert.Len(t, prev, 24)
	assert.Equal(t, day1, prev[0].Timestamp)
}

func TestPreviousDaySliceFalseWithOnlyOneDay(t *testing.T) {
	day1 := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	candles := hourlyCandles(day1, 10, 1, 0)
	_, ok := previousDaySlice(candles)
	assert.False(t, ok)
}

func TestPreviousDayExtremesComputesHighLow(t *testing.T) {
	day1 := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	prevDayCandles := hourlyCandles(day1, 24, 1, 0)
	prevDayCandles[5].High = 5
	prevDayCandles[10].Low = -3
	candles := append(prevDayCandles, hourlyCandles(day1.Add(24*time.Hour), 3, 1, 0)...)

	pdh, pdl, ok := previousDayExtremes(candles, day1.Add(25*time.Hour))
	require.True(t, ok)
	assert.Equal(t, 5.0, pdh)
	assert.Equal(t, -3.0, pdl)
}

func TestPreviousDayExtremesFalseWithoutPriorDay(t *testing.T) {
	day1 := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	candles := hourlyCandles(day1, 5, 1, 0)
	_, _, ok := previousDayExtremes(candles, day1)
	assert.False(t, ok)
}
