package market

import (
	"math"
	"strconv"

	"github.com/Alias1177/Analyzer/internal/model"
)

// Validate checks the candle invariants the indicator math relies on: finite
// values, low <= min(open, close), high >= max(open, close) and strictly
// ascending open times.
func Validate(candles []model.Candle) error {
	for i, c := range candles {
		for _, f := range []struct {
			name  string
			value float64
		}{
			{"open", c.Open},
			{"high", c.High},
			{"low", c.Low},
			{"close", c.Close},
			{"volume", c.Volume},
		} {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				return &MalformedCandleError{Index: i, Field: f.name, Value: formatFloat(f.value), Err: ErrNonFinite}
			}
		}

		if c.Low > math.Min(c.Open, c.Close) {
			return &MalformedCandleError{Index: i, Field: "low", Value: formatFloat(c.Low), Err: ErrInvalidOHLC}
		}
		if c.High < math.Max(c.Open, c.Close) {
			return &MalformedCandleError{Index: i, Field: "high", Value: formatFloat(c.High), Err: ErrInvalidOHLC}
		}

		if i > 0 && c.OpenTime <= candles[i-1].OpenTime {
			return &MalformedCandleError{Index: i, Field: "openTime", Value: strconv.FormatInt(c.OpenTime, 10), Err: ErrUnordered}
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
