package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Alias1177/Analyzer/internal/model"
)

// FormatSummary renders one timeframe summary as a plain-text alert.
func FormatSummary(s *model.IndicatorSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s: %s (confidence %.0f%%)\n",
		s.Symbol, s.Interval, strings.ToUpper(string(s.Signal.Action)), s.Signal.Confidence*100)
	fmt.Fprintf(&b, "Candle: %s | Close: %s | Volume: %s\n",
		time.UnixMilli(s.OpenTime).UTC().Format("2006-01-02 15:04"), price(s.Close), price(s.Volume))

	fmt.Fprintf(&b, "RSI: %s | StochRSI: %s\n", reading(s, "rsi", 2), reading(s, "stochRsi", 2))
	fmt.Fprintf(&b, "MACD: %s | Signal: %s | Hist: %s\n",
		reading(s, "macd", 5), reading(s, "macdSignal", 5), reading(s, "macdHist", 5))
	fmt.Fprintf(&b, "Bollinger: %s / %s / %s\n",
		level(s, "bollingerLower"), level(s, "bollingerMiddle"), level(s, "bollingerUpper"))
	fmt.Fprintf(&b, "MA: %s / %s | EMA: %s / %s\n",
		level(s, "ma20"), level(s, "ma200"), level(s, "ema20"), level(s, "ema200"))

	if poc, ok := pointOfControl(s.VolumeProfile); ok {
		fmt.Fprintf(&b, "Volume POC: %s\n", poc)
	}

	if len(s.Signal.Factors) > 0 {
		b.WriteString("Factors:\n")
		for _, factor := range s.Signal.Factors {
			fmt.Fprintf(&b, "- %s\n", factor)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatReport renders every timeframe in the given order; failed ones are marked unavailable.
func FormatReport(symbol string, intervals []string, summaries map[string]*model.IndicatorSummary) string {
	sections := make([]string, 0, len(intervals))
	for _, interval := range intervals {
		s := summaries[interval]
		if s == nil {
			sections = append(sections, fmt.Sprintf("%s %s: data unavailable", symbol, interval))
			continue
		}
		sections = append(sections, FormatSummary(s))
	}
	return strings.Join(sections, "\n\n")
}

func reading(s *model.IndicatorSummary, name string, decimals int) string {
	v, ok := s.Value(name)
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// level formats a price-denominated indicator like a price.
func level(s *model.IndicatorSummary, name string) string {
	v, ok := s.Value(name)
	if !ok {
		return "n/a"
	}
	return price(v)
}

func price(v float64) string {
	return fmt.Sprintf("%.*f", priceDecimals(v), v)
}

// priceDecimals keeps two decimals from 1 up and four significant digits below it.
func priceDecimals(v float64) int {
	a := math.Abs(v)
	if a >= 1 || a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return 2
	}
	return min(3-int(math.Floor(math.Log10(a))), 12)
}

// pointOfControl returns the price range of the heaviest volume bucket.
func pointOfControl(p model.VolumeProfile) (string, bool) {
	best := -1
	for i, v := range p.Buckets {
		if v > 0 && (best < 0 || v > p.Buckets[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	low := p.Low + float64(best)*p.BucketSize
	return fmt.Sprintf("%s-%s", price(low), price(low+p.BucketSize)), true
}
