package risk

import (
	"time"

	"github.com/rangescalp/engine/internal/rangedetect"
)

// PDHPDL is the previous trading day's high/low, refreshed once per UTC
// calendar day (spec §4.4's "adaptive PDH/PDL refresh": stale PDH/PDL from
// two days ago is worse than no PDH/PDL at all).
type PDHPDL struct {
	High      float64
	Low       float64
	ForDate   time.Time // UTC midnight of the day this PDH/PDL describes
	Stale     bool
}

// RefreshPDHPDL recomputes PDH/PDL from the prior UTC day's candles when
// current.ForDate no longer matches "yesterday" relative to now, returning
// the refreshed value. If no recompute is needed it returns current
// unchanged (Stale forced false). previousDayCandles must already be
// filtered to the UTC calendar day immediately before now's day by the
// caller (internal/candle owns that slicing).
func RefreshPDHPDL(current PDHPDL, now time.Time, previousDayCandles []Candle) PDHPDL {
	yesterday := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	if current.ForDate.Equal(yesterday) {
		current.Stale = false
		return current
	}
	if len(previousDayCandles) == 0 {
		return PDHPDL{ForDate: yesterday, Stale: true}
	}
	r := rangedetect.BuildDailyRange("", "", previousDayCandles)
	return PDHPDL{High: r.High, Low: r.Low, ForDate: yesterday, Stale: false}
}
