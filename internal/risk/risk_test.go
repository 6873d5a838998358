package risk

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/rangedetect"
	"github.com/stretchr/testify/assert"
)

func TestDataQualityGateRejectsStale(t *testing.T) {
	ok, reason := DataQualityGate(FreshnessReport{Age: 10 * time.Minute, Threshold: time.Minute})
	assert.False(t, ok)
	assert.Contains(t, reason, "stale")
}

func TestDataQualityGatePassesFresh(t *testing.T) {
	ok, _ := DataQualityGate(FreshnessReport{Age: 30 * time.Second, Threshold: time.Minute})
	assert.True(t, ok)
}

func TestScoreConfluenceStructureThresholds(t *testing.T) {
	w := DefaultConfluenceWeights()

	full := ScoreConfluence(ConfluenceInputs{TotalTouches: 3}, w)
	assert.Equal(t, w.Structure, full.Structure)

	partial := ScoreConfluence(ConfluenceInputs{TotalTouches: 2}, w)
	assert.InDelta(t, w.Structure*partialStructureFactor, partial.Structure, 1e-9)

	none := ScoreConfluence(ConfluenceInputs{TotalTouches: 1}, w)
	assert.Equal(t, 0.0, none.Structure)
	assert.Contains(t, none.Missing, "structure")
}

func TestScoreConfluenceLocationCriticalGap(t *testing.T) {
	w := DefaultConfluenceWeights()
	r := &RangeStructure{High: 110, Low: 90, Mid: 100}
	r.GapZones = rangedetect.NewCriticalGapZones(r.High, r.Low)

	in := ConfluenceInputs{Price: 109, Range: r, ATR: 1}
	b := ScoreConfluence(in, w)
	assert.Equal(t, w.Location, b.Location)
}

func TestScoreConfluenceLocationATRDistance(t *testing.T) {
	w := DefaultConfluenceWeights()
	r := &RangeStructure{High: 110, Low: 90, Mid: 100}

	full := ScoreConfluence(ConfluenceInputs{Price: 101, Range: r, ATR: 1}, w)
	assert.Equal(t, w.Location, full.Location)

	partial := ScoreConfluence(ConfluenceInputs{Price: 100.4, Range: r, ATR: 1}, w)
	assert.InDelta(t, w.Location*partialLocationFactor, partial.Location, 1e-9)

	none := ScoreConfluence(ConfluenceInputs{Price: 100.1, Range: r, ATR: 1}, w)
	assert.Equal(t, 0.0, none.Location)
	assert.Contains(t, none.Missing, "location")
}

func TestScoreConfluenceConfirmationAnySignal(t *testing.T) {
	w := DefaultConfluenceWeights()
	b := ScoreConfluence(ConfluenceInputs{Confirmation: ConfirmationSignals{RSIExtreme: true}}, w)
	assert.Equal(t, w.Confirmation, b.Confirmation)

	none := ScoreConfluence(ConfluenceInputs{}, w)
	assert.Equal(t, 0.0, none.Confirmation)
	assert.Contains(t, none.Missing, "confirmation")
}

func TestScoreConfluenceTotalMatchesGateThreshold(t *testing.T) {
	w := DefaultConfluenceWeights()
	r := &RangeStructure{High: 110, Low: 90, Mid: 100}
	in := ConfluenceInputs{
		TotalTouches: 3,
		Price:        101,
		Range:        r,
		ATR:          1,
		Confirmation: ConfirmationSignals{TapePressure: true},
	}
	b := ScoreConfluence(in, w)
	assert.InDelta(t, 100.0, b.Total(), 1e-9)

	ok, _ := ConfluenceGate(b.Total(), 80)
	assert.True(t, ok)
}

func TestFalseRangeGateRejectsStrongDivergence(t *testing.T) {
	ok, _ := FalseRangeGate(rangedetect.FalseRange{Found: true, DivergenceStrength: 0.9})
	assert.False(t, ok)
}

func TestFalseRangeGateAllowsMildDivergence(t *testing.T) {
	ok, _ := FalseRangeGate(rangedetect.FalseRange{Found: true, DivergenceStrength: 0.2})
	assert.True(t, ok)
}

func TestSessionBlackoutGate(t *testing.T) {
	now := time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC)
	ok, _ := SessionBlackoutGate(now, []int{22, 23})
	assert.False(t, ok)

	ok2, _ := SessionBlackoutGate(now, []int{5, 6})
	assert.True(t, ok2)
}

func TestTradeActivityFloorGate(t *testing.T) {
	ok, _ := TradeActivityFloorGate(0.5, 1.0)
	assert.False(t, ok)
	ok2, _ := TradeActivityFloorGate(2.0, 1.0)
	assert.True(t, ok2)
}

func TestNestedAlignmentGateNoRangesPasses(t *testing.T) {
	ok, _ := NestedAlignmentGate(nil, nil, nil, 100, true)
	assert.True(t, ok)
}

func TestNestedAlignmentGateRejectsM5OutsideM15(t *testing.T) {
	m15 := &RangeStructure{High: 110, Low: 90}
	m5 := &RangeStructure{High: 115, Low: 95}
	ok, reason := NestedAlignmentGate(nil, m15, m5, 100, true)
	assert.False(t, ok)
	assert.Contains(t, reason, "not nested within M15")
}

func TestNestedAlignmentGateRejectsWrongThirdForLong(t *testing.T) {
	m15 := &RangeStructure{High: 110, Low: 90}
	m5 := &RangeStructure{High: 109, Low: 91}
	ok, reason := NestedAlignmentGate(nil, m15, m5, 108, true)
	assert.False(t, ok)
	assert.Contains(t, reason, "upper third")
}

func TestEvaluatePipelineAggregatesAllRejections(t *testing.T) {
	m15 := &RangeStructure{High: 110, Low: 90}
	m5 := &RangeStructure{High: 115, Low: 95, Mid: 100}
	in := Input{
		Now:               time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC),
		Freshness:         FreshnessReport{Age: time.Hour, Threshold: time.Minute},
		Range:             m5,
		M15Range:          m15,
		Price:             100,
		FalseRange:        rangedetect.FalseRange{},
		Confluence:        ConfluenceInputs{},
		ConfluenceWeights: DefaultConfluenceWeights(),
		MinConfluence:     80,
		BlackoutHoursUTC:  []int{22},
		ATR:               0.1,
		MinATR:            1.0,
		Long:              true,
	}
	result := Evaluate(in)
	assert.False(t, result.Passed)
	assert.GreaterOrEqual(t, len(result.Rejections), 3)
}
