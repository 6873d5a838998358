package structure

import "math"

// LiquidityCluster is the strongest equal-high/low cluster found among a
// set of swing points (spec §4.1): swings whose prices lie within
// tolerance tau = 0.1*ATR of each other.
type LiquidityCluster struct {
	Found   bool
	Kind    SwingKind
	Price   float64 // cluster centroid
	ZoneLo  float64
	ZoneHi  float64
	Count   int
	BarsAgo int // distance (in candle indices) from the most recent member
}

const equalLevelTolFactor = 0.1 // tau = 0.1 * ATR
const minClusterTouches = 2

// DetectEqualLevels clusters swing points of the given kind whose prices
// lie within tau = 0.1*ATR of each other and reports the strongest
// (largest-count) cluster. Requires at least 2 members to report a find.
func DetectEqualLevels(swings []Swing, kind SwingKind, atr float64, totalCandles int) LiquidityCluster {
	tau := equalLevelTolFactor * atr
	var members []Swing
	for _, s := range swings {
		if s.Kind == kind {
			members = append(members, s)
		}
	}
	if len(members) < minClusterTouches || tau <= 0 {
		return LiquidityCluster{}
	}

	best := LiquidityCluster{}
	for i := range members {
		anchor := members[i].Price
		var cluster []Swing
		for _, m := range members {
			if math.Abs(m.Price-anchor) <= tau {
				cluster = append(cluster, m)
			}
		}
		if len(cluster) < minClusterTouches {
			continue
		}
		if len(cluster) > best.Count {
			sum, lastIdx := 0.0, -1
			for _, m := range cluster {
				sum += m.Price
				if m.Index > lastIdx {
					lastIdx = m.Index
				}
			}
			centroid := sum / float64(len(cluster))
			best = LiquidityCluster{
				Found:   true,
				Kind:    kind,
				Price:   centroid,
				ZoneLo:  centroid - tau,
				ZoneHi:  centroid + tau,
				Count:   len(cluster),
				BarsAgo: totalCandles - 1 - lastIdx,
			}
		}
	}
	return best
}
