package prediction

import (
	"fmt"
	"math"

	"github.com/Alias1177/Analyzer/internal/model"
)

type crossDirection int

const (
	noCross crossDirection = iota
	bullishCross
	bearishCross
)

// Classify turns the latest readings of an enriched series into a buy/sell/hold
// signal. Every rule with enough data is evaluated and casts at most one vote:
//
//   - RSI at or below the oversold threshold votes buy, at or above overbought votes sell.
//   - A MACD line crossing its signal line within the last MACDCrossLookback
//     candles votes in the direction of the cross.
//
// The score is buy votes minus sell votes and confidence is |score| divided by
// the number of rules evaluated.
func Classify(series []model.EnrichedCandle, cfg model.SignalConfig) model.Signal {
	signal := model.Signal{Action: model.ActionHold, Factors: []string{}}
	if len(series) == 0 {
		signal.Factors = append(signal.Factors, "No candles available")
		return signal
	}

	bullishScore, bearishScore, evaluated := 0, 0, 0
	latest := series[len(series)-1]

	// RSI factor
	if latest.RSI != nil {
		evaluated++
		rsi := *latest.RSI
		if rsi <= cfg.RSIOversold {
			bullishScore++
			signal.Factors = append(signal.Factors, fmt.Sprintf("Oversold RSI at %.1f (<= %.0f)", rsi, cfg.RSIOversold))
		} else if rsi >= cfg.RSIOverbought {
			bearishScore++
			signal.Factors = append(signal.Factors, fmt.Sprintf("Overbought RSI at %.1f (>= %.0f)", rsi, cfg.RSIOverbought))
		}
	}

	// MACD factor
	if cross, ago, ok := recentMACDCross(series, cfg.MACDCrossLookback); ok {
		evaluated++
		switch cross {
		case bullishCross:
			bullishScore++
			signal.Factors = append(signal.Factors, fmt.Sprintf("MACD crossed above signal %s", candlesAgo(ago)))
		case bearishCross:
			bearishScore++
			signal.Factors = append(signal.Factors, fmt.Sprintf("MACD crossed below signal %s", candlesAgo(ago)))
		}
	}

	if evaluated == 0 {
		signal.Factors = append(signal.Factors, "Not enough history for RSI or MACD")
		return signal
	}

	signal.Score = bullishScore - bearishScore
	signal.Confidence = math.Abs(float64(signal.Score)) / float64(evaluated)
	switch {
	case signal.Score > 0:
		signal.Action = model.ActionBuy
	case signal.Score < 0:
		signal.Action = model.ActionSell
	default:
		if len(signal.Factors) == 0 {
			signal.Factors = append(signal.Factors, "Market in consolidation")
		}
	}
	return signal
}

// recentMACDCross reports the most recent crossing of the MACD line through its
// signal line among the last lookback candles. ok is false when the window has
// fewer than two candles with both lines defined.
func recentMACDCross(series []model.EnrichedCandle, lookback int) (cross crossDirection, ago int, ok bool) {
	if lookback <= 0 {
		return noCross, 0, false
	}
	last := len(series) - 1
	first := max(1, last-lookback+1)

	for i := last; i >= first; i-- {
		prev, cur := macdSpread(series[i-1]), macdSpread(series[i])
		if prev == nil || cur == nil {
			break
		}
		ok = true
		switch {
		case *prev <= 0 && *cur > 0:
			return bullishCross, last - i, true
		case *prev >= 0 && *cur < 0:
			return bearishCross, last - i, true
		}
	}
	return noCross, 0, ok
}

func macdSpread(c model.EnrichedCandle) *float64 {
	if c.MACD == nil || c.MACDSignal == nil {
		return nil
	}
	d := *c.MACD - *c.MACDSignal
	return &d
}

func candlesAgo(n int) string {
	switch n {
	case 0:
		return "on the last candle"
	case 1:
		return "1 candle ago"
	default:
		return fmt.Sprintf("%d candles ago", n)
	}
}
