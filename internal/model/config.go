package model

import "time"

// EngineConfig holds every setting the indicator engine reads.
// It is passed explicitly; nothing in the engine looks at the environment.
type EngineConfig struct {
	Intervals            []string        `yaml:"intervals"`
	CandleLimit          int             `yaml:"candle_limit"`
	RSIWindow            int             `yaml:"rsi_window"`
	StochRSIWindow       int             `yaml:"stoch_rsi_window"`
	MAWindows            []int           `yaml:"ma_windows"` // feeds ma20/ema20 and ma200/ema200
	MACD                 MACDConfig      `yaml:"macd"`
	Bollinger            BollingerConfig `yaml:"bollinger"`
	VolumeSMAWindow      int             `yaml:"volume_sma_window"`
	VolumeProfileBuckets int             `yaml:"volume_profile_buckets"`
	Signal               SignalConfig    `yaml:"signal"`
	TimeframeTimeout     time.Duration   `yaml:"timeframe_timeout"`
}

type MACDConfig struct {
	Fast   int `yaml:"fast"`
	Slow   int `yaml:"slow"`
	Signal int `yaml:"signal"`
}

type BollingerConfig struct {
	Window int     `yaml:"window"`
	K      float64 `yaml:"k"`
}

// SignalConfig is the thresholding policy used to classify readings into buy/sell/hold.
type SignalConfig struct {
	RSIOversold       float64 `yaml:"rsi_oversold"`
	RSIOverbought     float64 `yaml:"rsi_overbought"`
	MACDCrossLookback int     `yaml:"macd_cross_lookback"`
}

// DefaultEngineConfig returns the reference configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Intervals:            []string{"4h", "1d", "1w"},
		CandleLimit:          200,
		RSIWindow:            14,
		StochRSIWindow:       14,
		MAWindows:            []int{20, 200},
		MACD:                 MACDConfig{Fast: 12, Slow: 26, Signal: 9},
		Bollinger:            BollingerConfig{Window: 20, K: 2},
		VolumeSMAWindow:      14,
		VolumeProfileBuckets: 10,
		Signal: SignalConfig{
			RSIOversold:       30,
			RSIOverbought:     70,
			MACDCrossLookback: 3,
		},
		TimeframeTimeout: 15 * time.Second,
	}
}
