package model

// VolumeProfile is a histogram of traded volume binned by price level.
// It describes a whole series rather than a single candle.
type VolumeProfile struct {
	Low        float64   `json:"low"`
	High       float64   `json:"high"`
	BucketSize float64   `json:"bucketSize"`
	Buckets    []float64 `json:"buckets"`
}

// IndicatorSummary holds the latest reading of every indicator for one timeframe
type IndicatorSummary struct {
	Symbol        string              `json:"symbol"`
	Interval      string              `json:"interval"`
	OpenTime      int64               `json:"openTime"`
	Close         float64             `json:"close"`
	Volume        float64             `json:"volume"`
	Indicators    map[string]*float64 `json:"indicators"`
	VolumeProfile VolumeProfile       `json:"volumeProfile"`
	Signal        Signal              `json:"signal"`
}

// Value returns the named indicator reading and whether it is defined.
func (s *IndicatorSummary) Value(name string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.Indicators[name]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}
