package technical

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// CalculateRSI calculates the Relative Strength Index with Wilder's smoothing.
// The averages are seeded with the simple mean of the first window deltas, so
// the first defined value sits at index window.
func CalculateRSI(closes []float64, window int) Series {
	out := undefinedSeries(len(closes))
	if window <= 0 || len(closes) <= window {
		return out
	}

	var gains, losses float64
	for i := 1; i <= window; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	period := float64(window)
	avgGain := gains / period
	avgLoss := losses / period
	out.Values[window] = relativeStrength(avgGain, avgLoss)

	for i := window + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(period-1) + gain) / period
		avgLoss = (avgLoss*(period-1) + loss) / period
		out.Values[i] = relativeStrength(avgGain, avgLoss)
	}
	out.Start = window
	return out
}

// relativeStrength maps smoothed gain/loss to the 0-100 RSI scale.
// A window without losses reads 100.
func relativeStrength(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// CalculateStochRSI normalizes RSI into [0,1] against the min and max of its
// trailing window. Only full windows of defined RSI values produce output; a
// flat window reads 0.
func CalculateStochRSI(rsi Series, window int) Series {
	out := undefinedSeries(rsi.Len())
	if window <= 0 {
		return out
	}
	start := rsi.Start + window - 1
	if start >= rsi.Len() {
		return out
	}

	for i := start; i < rsi.Len(); i++ {
		lowest, highest := minMax(rsi.Values[i-window+1 : i+1])
		if highest == lowest {
			out.Values[i] = 0
			continue
		}
		out.Values[i] = (rsi.Values[i] - lowest) / (highest - lowest)
	}
	out.Start = start
	return out
}

// CalculateMACD computes fast EMA minus slow EMA, its signal EMA and the histogram.
// The signal EMA runs over the defined part of the MACD line only and is then
// shifted back into place, so its seed average never sees the warm-up prefix.
func CalculateMACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) MACDResult {
	n := len(closes)
	result := MACDResult{
		Line:      undefinedSeries(n),
		Signal:    undefinedSeries(n),
		Histogram: undefinedSeries(n),
	}

	fast := CalculateEMA(closes, fastPeriod)
	slow := CalculateEMA(closes, slowPeriod)
	start := max(fast.Start, slow.Start)
	if start >= n {
		return result
	}

	for i := start; i < n; i++ {
		result.Line.Values[i] = fast.Values[i] - slow.Values[i]
	}
	result.Line.Start = start

	signal := CalculateEMA(result.Line.Values[start:], signalPeriod)
	if signal.Start >= signal.Len() {
		return result
	}

	for j := signal.Start; j < signal.Len(); j++ {
		i := start + j
		result.Signal.Values[i] = signal.Values[j]
		result.Histogram.Values[i] = result.Line.Values[i] - signal.Values[j]
	}
	result.Signal.Start = start + signal.Start
	result.Histogram.Start = start + signal.Start
	return result
}

func minMax(values []float64) (float64, float64) {
	lowest, highest := values[0], values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
		if v > highest {
			highest = v
		}
	}
	return lowest, highest
}
