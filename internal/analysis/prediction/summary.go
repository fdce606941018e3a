package prediction

import (
	"github.com/Alias1177/Analyzer/internal/analysis/technical"
	"github.com/Alias1177/Analyzer/internal/model"
)

// Summarize reports the last candle's indicator readings, the volume profile of
// the whole series and its classification. It returns nil for an empty series.
func Summarize(symbol, interval string, series []model.EnrichedCandle, cfg model.EngineConfig) *model.IndicatorSummary {
	if len(series) == 0 {
		return nil
	}
	latest := series[len(series)-1]

	return &model.IndicatorSummary{
		Symbol:        symbol,
		Interval:      interval,
		OpenTime:      latest.OpenTime,
		Close:         latest.Close,
		Volume:        latest.Volume,
		Indicators:    latest.Indicators(),
		VolumeProfile: technical.VolumeProfileOf(series, cfg.VolumeProfileBuckets),
		Signal:        Classify(series, cfg.Signal),
	}
}

// SummarizeAll summarizes every timeframe of a multi-timeframe result; failed
// timeframes map to nil.
func SummarizeAll(symbol string, result model.MultiTimeframe, cfg model.EngineConfig) map[string]*model.IndicatorSummary {
	out := make(map[string]*model.IndicatorSummary, len(result))
	for interval, series := range result {
		out[interval] = Summarize(symbol, interval, series, cfg)
	}
	return out
}
