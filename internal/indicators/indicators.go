// Package indicators implements the pure numeric indicator kit (ATR, RSI,
// Stochastic, EMA, Bollinger Bands, VWAP, VWAP momentum, ADX). Every
// function is NaN-safe: a window too short to compute a real value returns
// a documented neutral default instead of NaN, mirroring
// indicators.CalculateRSI/CalculateATR in the teacher's technical-indicator
// package.
package indicators

import (
	"math"

	"github.com/rangescalp/engine/internal/market"
)

// ATR computes the Average True Range over n bars (Wilder's smoothing).
// Returns 0 when fewer than n+1 bars are available.
func ATR(candles []market.Candle, n int) float64 {
	if n <= 0 || len(candles) < n+1 {
		return 0
	}
	trueRanges := trueRanges(candles)
	if len(trueRanges) < n {
		return 0
	}
	atr := average(trueRanges[:n])
	alpha := 1.0 / float64(n)
	for i := n; i < len(trueRanges); i++ {
		atr = atr*(1-alpha) + trueRanges[i]*alpha
	}
	return atr
}

func trueRanges(candles []market.Candle) []float64 {
	if len(candles) < 2 {
		return nil
	}
	tr := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]
		hl := cur.High - cur.Low
		hc := math.Abs(cur.High - prev.Close)
		lc := math.Abs(cur.Low - prev.Close)
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// RSI computes Wilder-smoothed Relative Strength Index over n periods.
// Returns the neutral default 50 when fewer than n+1 closes are available.
func RSI(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n+1 {
		return 50.0
	}
	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := average(gains[:n])
	avgLoss := average(losses[:n])
	alpha := 1.0 / float64(n)
	for i := n; i < len(gains); i++ {
		avgGain = avgGain*(1-alpha) + gains[i]*alpha
		avgLoss = avgLoss*(1-alpha) + losses[i]*alpha
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// StochasticResult holds %K and %D.
type StochasticResult struct {
	K float64
	D float64
}

// Stochastic computes %K(k) smoothed by a %D(d)-period simple moving
// average. Returns the neutral default (50,50) when insufficient data.
func Stochastic(candles []market.Candle, k, d int) StochasticResult {
	if k <= 0 || d <= 0 || len(candles) < k {
		return StochasticResult{K: 50, D: 50}
	}
	percentK := make([]float64, 0, len(candles)-k+1)
	for end := k; end <= len(candles); end++ {
		window := candles[end-k : end]
		hi, lo := window[0].High, window[0].Low
		for _, c := range window[1:] {
			if c.High > hi {
				hi = c.High
			}
			if c.Low < lo {
				lo = c.Low
			}
		}
		cur := window[len(window)-1].Close
		if hi == lo {
			percentK = append(percentK, 50.0)
			continue
		}
		percentK = append(percentK, 100.0*(cur-lo)/(hi-lo))
	}
	lastK := percentK[len(percentK)-1]
	dWindow := percentK
	if len(dWindow) > d {
		dWindow = dWindow[len(dWindow)-d:]
	}
	return StochasticResult{K: lastK, D: average(dWindow)}
}

// EMA computes an exponential moving average with alpha = 2/(n+1), seeded
// by a simple average of the first n values. Returns 0 if too short.
func EMA(values []float64, n int) float64 {
	if n <= 0 || len(values) < n {
		return 0
	}
	ema := average(values[:n])
	alpha := 2.0 / (float64(n) + 1.0)
	for i := n; i < len(values); i++ {
		ema = values[i]*alpha + ema*(1-alpha)
	}
	return ema
}

// BollingerResult holds band values for a single evaluation point.
type BollingerResult struct {
	Mid   float64
	Upper float64
	Lower float64
	Width float64
}

// Bollinger computes SMA ± sigma*stddev bands over the last n closes.
func Bollinger(closes []float64, n int, sigma float64) BollingerResult {
	if n <= 0 || len(closes) < n {
		return BollingerResult{}
	}
	window := closes[len(closes)-n:]
	mid := average(window)
	variance := 0.0
	for _, c := range window {
		d := c - mid
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)
	upper := mid + sigma*stddev
	lower := mid - sigma*stddev
	return BollingerResult{Mid: mid, Upper: upper, Lower: lower, Width: upper - lower}
}

// VWAP computes the volume-weighted average price over the given candles
// (a window or session slice supplied by the caller).
func VWAP(candles []market.Candle) float64 {
	var pv, v float64
	for _, c := range candles {
		tp := c.TypicalPrice()
		pv += tp * c.Volume
		v += c.Volume
	}
	if v == 0 {
		return 0
	}
	return pv / v
}

// VWAPMomentumATRPerBar expresses the VWAP's drift over the last `bars`
// candles in units of ATR per bar: change in VWAP over the window, divided
// by price, divided by (ATR/price), divided by (bars-1). Returns 0 when
// there isn't enough history or ATR is zero.
func VWAPMomentumATRPerBar(candles []market.Candle, atr float64, bars int) float64 {
	if bars < 2 || len(candles) < bars || atr <= 0 {
		return 0
	}
	window := candles[len(candles)-bars:]
	vwapNow := VWAP(window)
	vwapThen := VWAP(window[:1])
	price := window[len(window)-1].Close
	if price == 0 {
		return 0
	}
	priceChange := (vwapNow - vwapThen) / price
	atrFrac := atr / price
	if atrFrac == 0 {
		return 0
	}
	return priceChange / atrFrac / float64(bars-1)
}

// ADXResult holds the directional-movement-index trend reading used by the
// strategy scorer's ADX-regime gate (spec §4.7).
type ADXResult struct {
	ADX float64
	PDI float64
	MDI float64
}

// ADX computes the Average Directional Index over n periods using Wilder's
// smoothing, mirroring indicators.CalculateADX.
func ADX(candles []market.Candle, n int) ADXResult {
	if n <= 0 || len(candles) < n*2+1 {
		return ADXResult{}
	}
	tr := trueRanges(candles)
	plusDM := make([]float64, len(candles)-1)
	minusDM := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		up := candles[i].High - candles[i-1].High
		down := candles[i-1].Low - candles[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}
	if len(tr) < n {
		return ADXResult{}
	}
	smTR, smPlus, smMinus := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}
	alpha := 1.0 / float64(n)
	for i := n; i < len(tr); i++ {
		smTR = smTR*(1-alpha) + tr[i]*alpha
		smPlus = smPlus*(1-alpha) + plusDM[i]*alpha
		smMinus = smMinus*(1-alpha) + minusDM[i]*alpha
	}
	if smTR == 0 {
		return ADXResult{}
	}
	pdi := 100.0 * smPlus / smTR
	mdi := 100.0 * smMinus / smTR
	sum := pdi + mdi
	adx := 0.0
	if sum > 0 {
		adx = 100.0 * math.Abs(pdi-mdi) / sum
	}
	return ADXResult{ADX: adx, PDI: pdi, MDI: mdi}
}

// EffectiveATR is the larger of the raw ATR(5m) and half the Bollinger-band
// width scaled to price, per spec §4.4: accounts for rapid volatility
// expansion that ATR alone lags.
func EffectiveATR(atr5m, bbWidth, priceMid float64) float64 {
	return math.Max(atr5m, 0.5*bbWidth*priceMid)
}
