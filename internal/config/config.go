package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	SourceBinance    = "binance"
	SourceTwelveData = "twelvedata"
)

// Config holds all application configuration
type Config struct {
	Engine    model.EngineConfig `yaml:"engine"`
	Watchlist []string           `yaml:"watchlist"`

	CandleSource   string        `yaml:"candle_source"`
	BinanceBaseURL string        `yaml:"binance_base_url"`
	TwelveAPIKey   string        `yaml:"twelve_api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RequestsPerSec int           `yaml:"requests_per_sec"`
	MaxRetries     int           `yaml:"max_retries"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	HTTPAddr      string        `yaml:"http_addr"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	DB DBConfig `yaml:"database"`

	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   int64  `yaml:"telegram_chat_id"`
	ScanCron         string `yaml:"scan_cron"`
}

// DBConfig holds Postgres connection settings. An empty host disables persistence.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether a database is configured.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Engine:         model.DefaultEngineConfig(),
		Watchlist:      []string{"BTCUSDT", "ETHUSDT"},
		CandleSource:   SourceBinance,
		BinanceBaseURL: "https://api.binance.com",
		RequestTimeout: 30 * time.Second,
		RequestsPerSec: 10,
		MaxRetries:     3,
		LogLevel:       "info",
		LogFormat:      "console",
		HTTPAddr:       ":8080",
		CacheTTL:       time.Minute,
		DB: DBConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		ScanCron: "0 */15 * * * *",
	}
}

// Load initializes configuration from defaults, an optional YAML file named by
// ANALYZER_CONFIG and environment variables, in that order of precedence.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Default()

	if path := os.Getenv("ANALYZER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	e := &cfg.Engine
	e.Intervals = getEnvListWithDefault("INTERVALS", e.Intervals)
	e.CandleLimit = getEnvIntWithDefault("CANDLE_LIMIT", e.CandleLimit)
	e.RSIWindow = getEnvIntWithDefault("RSI_WINDOW", e.RSIWindow)
	e.StochRSIWindow = getEnvIntWithDefault("STOCH_RSI_WINDOW", e.StochRSIWindow)
	e.MAWindows = getEnvIntListWithDefault("MA_WINDOWS", e.MAWindows)
	e.MACD.Fast = getEnvIntWithDefault("MACD_FAST_PERIOD", e.MACD.Fast)
	e.MACD.Slow = getEnvIntWithDefault("MACD_SLOW_PERIOD", e.MACD.Slow)
	e.MACD.Signal = getEnvIntWithDefault("MACD_SIGNAL_PERIOD", e.MACD.Signal)
	e.Bollinger.Window = getEnvIntWithDefault("BB_PERIOD", e.Bollinger.Window)
	e.Bollinger.K = getEnvFloatWithDefault("BB_STD_DEV", e.Bollinger.K)
	e.VolumeSMAWindow = getEnvIntWithDefault("VOLUME_SMA_WINDOW", e.VolumeSMAWindow)
	e.VolumeProfileBuckets = getEnvIntWithDefault("VOLUME_PROFILE_BUCKETS", e.VolumeProfileBuckets)
	e.Signal.RSIOversold = getEnvFloatWithDefault("RSI_OVERSOLD", e.Signal.RSIOversold)
	e.Signal.RSIOverbought = getEnvFloatWithDefault("RSI_OVERBOUGHT", e.Signal.RSIOverbought)
	e.Signal.MACDCrossLookback = getEnvIntWithDefault("MACD_CROSS_LOOKBACK", e.Signal.MACDCrossLookback)
	e.TimeframeTimeout = getEnvDurationWithDefault("TIMEFRAME_TIMEOUT", e.TimeframeTimeout)

	cfg.Watchlist = getEnvListWithDefault("WATCHLIST", cfg.Watchlist)
	cfg.CandleSource = strings.ToLower(getEnvWithDefault("CANDLE_SOURCE", cfg.CandleSource))
	cfg.BinanceBaseURL = getEnvWithDefault("BINANCE_BASE_URL", cfg.BinanceBaseURL)
	cfg.TwelveAPIKey = getEnvWithDefault("TWELVE_API_KEY", cfg.TwelveAPIKey)
	cfg.RequestTimeout = getEnvDurationWithDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", cfg.RequestsPerSec)
	cfg.MaxRetries = getEnvIntWithDefault("MAX_RETRIES", cfg.MaxRetries)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvWithDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.HTTPAddr = getEnvWithDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.RedisAddr = getEnvWithDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnvWithDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.CacheTTL = getEnvDurationWithDefault("CACHE_TTL", cfg.CacheTTL)

	cfg.DB.Host = getEnvWithDefault("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvWithDefault("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnvWithDefault("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnvWithDefault("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnvWithDefault("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = getEnvWithDefault("DB_SSLMODE", cfg.DB.SSLMode)

	cfg.TelegramBotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramChatID = int64(getEnvIntWithDefault("TELEGRAM_CHAT_ID", int(cfg.TelegramChatID)))
	cfg.ScanCron = getEnvWithDefault("SCAN_CRON", cfg.ScanCron)
}

// Validate checks that the configuration can drive the engine.
func (c *Config) Validate() error {
	var errs []error
	e := c.Engine

	if len(e.Intervals) == 0 {
		errs = append(errs, errors.New("engine.intervals must not be empty"))
	}
	if e.CandleLimit <= 0 {
		errs = append(errs, errors.New("engine.candle_limit must be positive"))
	}
	for name, w := range map[string]int{
		"rsi_window":        e.RSIWindow,
		"stoch_rsi_window":  e.StochRSIWindow,
		"macd.fast":         e.MACD.Fast,
		"macd.slow":         e.MACD.Slow,
		"macd.signal":       e.MACD.Signal,
		"bollinger.window":  e.Bollinger.Window,
		"volume_sma_window": e.VolumeSMAWindow,
	} {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("engine.%s must be positive", name))
		}
	}
	if len(e.MAWindows) != 2 || e.MAWindows[0] <= 0 || e.MAWindows[1] <= 0 {
		errs = append(errs, errors.New("engine.ma_windows must hold two positive windows"))
	}
	if e.MACD.Fast >= e.MACD.Slow {
		errs = append(errs, errors.New("engine.macd.fast must be shorter than engine.macd.slow"))
	}
	if e.Bollinger.K <= 0 {
		errs = append(errs, errors.New("engine.bollinger.k must be positive"))
	}
	if e.VolumeProfileBuckets <= 0 {
		errs = append(errs, errors.New("engine.volume_profile_buckets must be positive"))
	}
	if e.Signal.RSIOversold >= e.Signal.RSIOverbought {
		errs = append(errs, errors.New("engine.signal.rsi_oversold must be below rsi_overbought"))
	}
	if e.Signal.MACDCrossLookback <= 0 {
		errs = append(errs, errors.New("engine.signal.macd_cross_lookback must be positive"))
	}
	if e.TimeframeTimeout <= 0 {
		errs = append(errs, errors.New("engine.timeframe_timeout must be positive"))
	}

	switch c.CandleSource {
	case SourceBinance:
	case SourceTwelveData:
		if c.TwelveAPIKey == "" {
			errs = append(errs, errors.New("twelve_api_key is required for the twelvedata source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown candle_source %q", c.CandleSource))
	}

	return errors.Join(errs...)
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return defaultValue
}

// getEnvDurationWithDefault accepts Go durations ("15s") or bare seconds ("30").
func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid duration")
	return defaultValue
}

func getEnvListWithDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvIntListWithDefault(key string, defaultValue []int) []int {
	parts := getEnvListWithDefault(key, nil)
	if parts == nil {
		return defaultValue
	}
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			log.Warn().Str("key", key).Str("value", part).Msg("Ignoring invalid integer list")
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
