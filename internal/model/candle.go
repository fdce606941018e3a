package model

// Candle represents a single OHLCV price candle
type Candle struct {
	OpenTime int64   `json:"openTime"` // epoch milliseconds
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

// EnrichedCandle is a candle with the indicator readings at its position attached.
// A nil field means the candle sits inside that indicator's warm-up window.
type EnrichedCandle struct {
	Candle
	MA20            *float64 `json:"ma20"`
	MA200           *float64 `json:"ma200"`
	EMA20           *float64 `json:"ema20"`
	EMA200          *float64 `json:"ema200"`
	BollingerUpper  *float64 `json:"bollingerUpper"`
	BollingerMiddle *float64 `json:"bollingerMiddle"`
	BollingerLower  *float64 `json:"bollingerLower"`
	MACD            *float64 `json:"macd"`
	MACDSignal      *float64 `json:"macdSignal"`
	MACDHist        *float64 `json:"macdHist"`
	RSI             *float64 `json:"rsi"`
	StochRSI        *float64 `json:"stochRsi"`
	VolumeSMA       *float64 `json:"volumeSma"`
}

// Indicators returns the indicator fields keyed by their JSON names.
func (c EnrichedCandle) Indicators() map[string]*float64 {
	return map[string]*float64{
		"ma20":            c.MA20,
		"ma200":           c.MA200,
		"ema20":           c.EMA20,
		"ema200":          c.EMA200,
		"bollingerUpper":  c.BollingerUpper,
		"bollingerMiddle": c.BollingerMiddle,
		"bollingerLower":  c.BollingerLower,
		"macd":            c.MACD,
		"macdSignal":      c.MACDSignal,
		"macdHist":        c.MACDHist,
		"rsi":             c.RSI,
		"stochRsi":        c.StochRSI,
		"volumeSma":       c.VolumeSMA,
	}
}

// MultiTimeframe maps a timeframe label to its enriched series.
// A nil series marks a timeframe whose fetch or computation failed and
// encodes as JSON null.
type MultiTimeframe map[string][]EnrichedCandle

// AnalysisResponse is the single-timeframe response shape.
type AnalysisResponse struct {
	Symbol   string           `json:"symbol"`
	Analysis []EnrichedCandle `json:"analysis"`
}
