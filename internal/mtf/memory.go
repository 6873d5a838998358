package mtf

import (
	"sync"

	"github.com/rangescalp/engine/internal/market"
)

const trendMemoryDepth = 5
const stabilizationMajority = 3 // of trendMemoryDepth=5, need >=3 agreeing

// Analyzer holds a short ring buffer of recent trend readings per
// timeframe behind a single mutex, mirroring the teacher's pattern of one
// lock per stateful analyzer component rather than one lock per buffer —
// callers only ever touch one timeframe at a time, so a single mutex never
// becomes a contention point.
type Analyzer struct {
	mu      sync.Mutex
	buffers map[market.Timeframe][]TrendDirection
}

// NewAnalyzer returns an Analyzer with empty buffers.
func NewAnalyzer() *Analyzer {
	return &Analyzer{buffers: make(map[market.Timeframe][]TrendDirection)}
}

// Observe appends dir to tf's buffer, keeping only the most recent
// trendMemoryDepth readings.
func (a *Analyzer) Observe(tf market.Timeframe, dir TrendDirection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf := append(a.buffers[tf], dir)
	if len(buf) > trendMemoryDepth {
		buf = buf[len(buf)-trendMemoryDepth:]
	}
	a.buffers[tf] = buf
}

// Stabilized returns tf's stabilized trend: the direction with at least
// stabilizationMajority occurrences in the buffer, or TrendNeutral if no
// direction has reached majority yet (spec §4.7 — a lone reversal bar does
// not flip the trend label, only a sustained run does).
func (a *Analyzer) Stabilized(tf market.Timeframe) TrendDirection {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf := a.buffers[tf]
	counts := map[TrendDirection]int{}
	for _, d := range buf {
		counts[d]++
	}
	if counts[TrendUp] >= stabilizationMajority {
		return TrendUp
	}
	if counts[TrendDown] >= stabilizationMajority {
		return TrendDown
	}
	return TrendNeutral
}
