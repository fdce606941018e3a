package technical

import "math"

// BollingerBands holds the three band series.
type BollingerBands struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// CalculateStdDev computes the population standard deviation over a rolling
// window. It shares its mean with CalculateSMA so the two always line up.
func CalculateStdDev(data []float64, window int) Series {
	return stdDevAround(data, CalculateSMA(data, window), window)
}

func stdDevAround(data []float64, mean Series, window int) Series {
	out := undefinedSeries(len(data))
	if mean.Start >= len(data) {
		return out
	}

	for i := mean.Start; i < len(data); i++ {
		m := mean.Values[i]
		win := data[i-window+1 : i+1]
		var variance float64
		flat := true
		for _, v := range win {
			variance += (v - m) * (v - m)
			flat = flat && v == win[0]
		}
		if flat {
			out.Values[i] = 0
			continue
		}
		out.Values[i] = math.Sqrt(variance / float64(window))
	}
	out.Start = mean.Start
	return out
}

// CalculateBollingerBands computes middle = SMA and upper/lower = middle ± k·stddev.
func CalculateBollingerBands(closes []float64, window int, k float64) BollingerBands {
	middle := CalculateSMA(closes, window)
	sd := stdDevAround(closes, middle, window)

	bands := BollingerBands{
		Upper:  undefinedSeries(len(closes)),
		Middle: middle,
		Lower:  undefinedSeries(len(closes)),
	}
	if middle.Start >= len(closes) {
		return bands
	}

	for i := middle.Start; i < len(closes); i++ {
		width := k * sd.Values[i]
		bands.Upper.Values[i] = middle.Values[i] + width
		bands.Lower.Values[i] = middle.Values[i] - width
	}
	bands.Upper.Start = middle.Start
	bands.Lower.Start = middle.Start
	return bands
}
