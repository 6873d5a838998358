package session

import (
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/strategy"
	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want Name
	}{
		{0, Asian},
		{6, Asian},
		{7, London},
		{12, London},
		{13, NY},
		{17, NY},
		{18, LateNY},
		{23, LateNY},
	}
	for _, c := range cases {
		now := time.Date(2026, 7, 31, c.hour, 0, 0, 0, time.UTC)
		assert.Equal(t, c.want, Classify(now), "hour %d", c.hour)
	}
}

func TestClassifyNonUTCConverted(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, loc) // 15:00 UTC
	assert.Equal(t, NY, Classify(now))
}

func TestStartHourUTC(t *testing.T) {
	assert.Equal(t, 0, StartHourUTC(Asian))
	assert.Equal(t, 7, StartHourUTC(London))
	assert.Equal(t, 13, StartHourUTC(NY))
	assert.Equal(t, 18, StartHourUTC(LateNY))
}

func TestScoreKnownStrategyAndSession(t *testing.T) {
	assert.InDelta(t, 0.9, Score(strategy.VWAPMeanReversion, Asian), 1e-9)
	assert.InDelta(t, 0.85, Score(strategy.LiquiditySweepReversal, NY), 1e-9)
}

func TestScoreUnknownDefaultsToNeutral(t *testing.T) {
	assert.InDelta(t, 0.5, Score(strategy.Name("nonexistent"), Asian), 1e-9)
	assert.InDelta(t, 0.5, Score(strategy.VWAPMeanReversion, Name("nonexistent")), 1e-9)
}
