package technical

import "github.com/Alias1177/Analyzer/internal/model"

// Closes extracts close prices from candles
func Closes(candles []model.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// Volumes extracts volumes from candles
func Volumes(candles []model.Candle) []float64 {
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.Volume
	}
	return volumes
}

// CalculateAllIndicators computes every indicator over the candle series in one
// pass and attaches the reading at index i to enriched candle i.
// Short series are not an error: indicators that cannot warm up stay nil.
func CalculateAllIndicators(candles []model.Candle, cfg model.EngineConfig) []model.EnrichedCandle {
	closes := Closes(candles)
	volumes := Volumes(candles)
	n := len(candles)

	maFast, maSlow := undefinedSeries(n), undefinedSeries(n)
	emaFast, emaSlow := undefinedSeries(n), undefinedSeries(n)
	if len(cfg.MAWindows) > 0 {
		maFast = CalculateSMA(closes, cfg.MAWindows[0])
		emaFast = CalculateEMA(closes, cfg.MAWindows[0])
	}
	if len(cfg.MAWindows) > 1 {
		maSlow = CalculateSMA(closes, cfg.MAWindows[1])
		emaSlow = CalculateEMA(closes, cfg.MAWindows[1])
	}

	bands := CalculateBollingerBands(closes, cfg.Bollinger.Window, cfg.Bollinger.K)
	macd := CalculateMACD(closes, cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)
	rsi := CalculateRSI(closes, cfg.RSIWindow)
	stochRSI := CalculateStochRSI(rsi, cfg.StochRSIWindow)
	volumeSMA := CalculateSMA(volumes, cfg.VolumeSMAWindow)

	enriched := make([]model.EnrichedCandle, n)
	for i, c := range candles {
		enriched[i] = model.EnrichedCandle{
			Candle:          c,
			MA20:            maFast.Ptr(i),
			MA200:           maSlow.Ptr(i),
			EMA20:           emaFast.Ptr(i),
			EMA200:          emaSlow.Ptr(i),
			BollingerUpper:  bands.Upper.Ptr(i),
			BollingerMiddle: bands.Middle.Ptr(i),
			BollingerLower:  bands.Lower.Ptr(i),
			MACD:            macd.Line.Ptr(i),
			MACDSignal:      macd.Signal.Ptr(i),
			MACDHist:        macd.Histogram.Ptr(i),
			RSI:             rsi.Ptr(i),
			StochRSI:        stochRSI.Ptr(i),
			VolumeSMA:       volumeSMA.Ptr(i),
		}
	}
	return enriched
}

// VolumeProfileOf computes the volume profile of an enriched series over close prices.
func VolumeProfileOf(candles []model.EnrichedCandle, buckets int) model.VolumeProfile {
	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}
	return CalculateVolumeProfile(volumes, closes, buckets)
}
