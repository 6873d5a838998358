package mtf

// PrimaryTrend locks the engine's primary trend from the stabilized H4 and
// H1 reads (spec §4.7): a directional H4 is the primary trend unless H1 has
// stabilized in the opposite direction, in which case the pair is treated
// as transitional and TrendNeutral is returned. When H4 is neutral, H1's
// reading is returned as is.
func PrimaryTrend(h4Stabilized, h1Stabilized TrendDirection) TrendDirection {
	if h4Stabilized != TrendNeutral {
		if h1Stabilized != TrendNeutral && h1Stabilized != h4Stabilized {
			// H1 disagrees and has itself stabilized: treat the pair as
			// transitional rather than picking a side outright.
			return TrendNeutral
		}
		return h4Stabilized
	}
	return h1Stabilized
}

// CounterTrendBucket classifies how strongly a candidate long/short
// opposes the primary trend, using ADX as the trend-strength proxy (spec
// §4.7's default bands: ADX>=35 strong, >=25 moderate, >=20 weak, below
// that no counter-trend penalty applies regardless of direction).
func CounterTrendBucket(primary TrendDirection, candidateLong bool, primaryADX float64) CounterTrendStrength {
	opposes := (primary == TrendUp && !candidateLong) || (primary == TrendDown && candidateLong)
	if primary == TrendNeutral || !opposes {
		return CounterTrendNone
	}
	switch {
	case primaryADX >= 35:
		return CounterTrendStrong
	case primaryADX >= 25:
		return CounterTrendModerate
	case primaryADX >= 20:
		return CounterTrendWeak
	default:
		return CounterTrendNone
	}
}

// AlignmentScore returns a 0-1 multi-timeframe alignment score for C7: 1.0
// when every supplied reading agrees with the candidate direction, scaled
// down by each disagreeing timeframe's own ADX-weighted confidence.
func AlignmentScore(candidateLong bool, readings []Reading) float64 {
	if len(readings) == 0 {
		return 0.5 // no data: neutral score, never a hard zero
	}
	var agree, total float64
	for _, r := range readings {
		weight := adxWeight(r.ADX)
		total += weight
		readingLong := r.Direction == TrendUp
		if r.Direction == TrendNeutral {
			agree += weight * 0.5
			continue
		}
		if readingLong == candidateLong {
			agree += weight
		}
	}
	if total == 0 {
		return 0.5
	}
	return agree / total
}

// adxWeight scales a timeframe's vote by how decisive its own ADX reading
// is: a flat ADX=10 timeframe barely influences the score, strongly
// trending timeframes dominate it.
func adxWeight(adx float64) float64 {
	w := adx / 50
	if w < 0.2 {
		return 0.2
	}
	if w > 1.5 {
		return 1.5
	}
	return w
}
