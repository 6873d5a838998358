package structure

import (
	"math"
	"sort"
)

const defaultFootprintWindowBars = 100
const defaultFootprintPrecision = 4 // step = 10^-precision
const valueAreaTargetPct = 0.70

// PriceLevel is a single binned price level in the volume profile.
type PriceLevel struct {
	Price     float64
	Volume    float64
	VolumePct float64
}

// VolumeFootprint is the rolling volume profile over the last window_bars
// candles (spec §4.1).
type VolumeFootprint struct {
	Active             bool
	TotalVolume         float64
	POC                 float64
	ValueAreaHigh       float64
	ValueAreaLow        float64
	HVNZones            []PriceLevel
	LVNZones            []PriceLevel
	CurrentPriceRank    int // 1-100 percentile
	CurrentPricePercent float64
}

// RollingVolumeFootprint bins the last windowBars candles' volume into
// price levels at step = 10^-precision, distributing each bar's volume
// uniformly across the price levels its [low,high] span touches.
func RollingVolumeFootprint(candles []Candle, windowBars, precision int) VolumeFootprint {
	if windowBars <= 0 {
		windowBars = defaultFootprintWindowBars
	}
	if precision <= 0 {
		precision = defaultFootprintPrecision
	}
	if len(candles) < windowBars {
		return VolumeFootprint{CurrentPriceRank: 50}
	}
	window := candles[len(candles)-windowBars:]

	totalVolume := 0.0
	for _, c := range window {
		totalVolume += c.Volume
	}
	if totalVolume == 0 {
		return VolumeFootprint{CurrentPriceRank: 50}
	}

	step := math.Pow(10, -float64(precision))
	bins := map[int64]float64{} // key = round(price/step)

	keyOf := func(price float64) int64 {
		return int64(math.Round(price / step))
	}

	for _, c := range window {
		if c.Volume == 0 {
			continue
		}
		loKey := keyOf(c.Low)
		hiKey := keyOf(c.High)
		if hiKey < loKey {
			loKey, hiKey = hiKey, loKey
		}
		numLevels := int(hiKey-loKey) + 1
		if numLevels <= 0 {
			numLevels = 1
		}
		volumePerLevel := c.Volume / float64(numLevels)
		for k := loKey; k <= hiKey; k++ {
			bins[k] += volumePerLevel
		}
	}

	levels := make([]PriceLevel, 0, len(bins))
	for k, v := range bins {
		levels = append(levels, PriceLevel{
			Price:     float64(k) * step,
			Volume:    v,
			VolumePct: v / totalVolume * 100,
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })

	byVolumeDesc := append([]PriceLevel(nil), levels...)
	sort.Slice(byVolumeDesc, func(i, j int) bool { return byVolumeDesc[i].Volume > byVolumeDesc[j].Volume })

	poc := byVolumeDesc[0].Price

	targetVolume := totalVolume * valueAreaTargetPct
	cumulative := 0.0
	vaHigh, vaLow := byVolumeDesc[0].Price, byVolumeDesc[0].Price
	for _, lvl := range byVolumeDesc {
		cumulative += lvl.Volume
		if lvl.Price > vaHigh {
			vaHigh = lvl.Price
		}
		if lvl.Price < vaLow {
			vaLow = lvl.Price
		}
		if cumulative >= targetVolume {
			break
		}
	}

	hvn := topN(byVolumeDesc, 5)

	nonZero := make([]PriceLevel, 0, len(levels))
	for _, lvl := range levels {
		if lvl.Volume > 0 {
			nonZero = append(nonZero, lvl)
		}
	}
	sort.Slice(nonZero, func(i, j int) bool { return nonZero[i].Volume < nonZero[j].Volume })
	lvn := topN(nonZero, 5)

	currentPrice := window[len(window)-1].Close
	currentKey := keyOf(currentPrice)
	var currentVolume float64
	for _, lvl := range levels {
		if keyOf(lvl.Price) == currentKey {
			currentVolume = lvl.Volume
			break
		}
	}

	rank := 1
	for _, lvl := range byVolumeDesc {
		if currentVolume >= lvl.Volume {
			break
		}
		rank++
	}
	percentile := 50
	if len(byVolumeDesc) > 0 {
		percentile = int(float64(rank) / float64(len(byVolumeDesc)) * 100)
	}

	return VolumeFootprint{
		Active:              true,
		TotalVolume:         totalVolume,
		POC:                 poc,
		ValueAreaHigh:       vaHigh,
		ValueAreaLow:        vaLow,
		HVNZones:            hvn,
		LVNZones:            lvn,
		CurrentPriceRank:    percentile,
		CurrentPricePercent: currentVolume / totalVolume * 100,
	}
}

func topN(levels []PriceLevel, n int) []PriceLevel {
	if len(levels) <= n {
		return append([]PriceLevel(nil), levels...)
	}
	return append([]PriceLevel(nil), levels[:n]...)
}
