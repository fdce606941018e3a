package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/Analyzer/internal/analysis/prediction"
	"github.com/Alias1177/Analyzer/internal/app"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/market"
	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/Alias1177/Analyzer/internal/notifier"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	symbolFlag := flag.String("symbol", "", "trading pair to analyze, e.g. BTCUSDT (defaults to the first watchlist entry)")
	jsonFlag := flag.Bool("json", false, "print the raw multi-timeframe series as JSON")
	flag.Parse()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	logger.Setup(cfg.LogLevel, cfg.LogFormat, "analyzer")
	printConfig(cfg)

	raw := *symbolFlag
	if raw == "" && len(cfg.Watchlist) > 0 {
		raw = cfg.Watchlist[0]
	}
	symbol, err := market.NormalizeSymbol(raw)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", raw).Msg("Invalid symbol")
	}

	// 3. Wire the analyzer
	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize analyzer")
	}
	defer a.Close()

	// 4. Run every timeframe
	result := a.Analyzer.Analyze(ctx, symbol)

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"symbol": symbol, "analysis": result}); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode analysis")
		}
		return
	}

	summaries := prediction.SummarizeAll(symbol, result, cfg.Engine)
	printReport(symbol, cfg.Engine, summaries)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("source", cfg.CandleSource).
		Strs("intervals", cfg.Engine.Intervals).
		Int("candle_limit", cfg.Engine.CandleLimit).
		Int("rsi_window", cfg.Engine.RSIWindow).
		Ints("ma_windows", cfg.Engine.MAWindows).
		Int("macd_fast", cfg.Engine.MACD.Fast).
		Int("macd_slow", cfg.Engine.MACD.Slow).
		Int("macd_signal", cfg.Engine.MACD.Signal).
		Int("bb_period", cfg.Engine.Bollinger.Window).
		Float64("bb_std_dev", cfg.Engine.Bollinger.K).
		Int("volume_profile_buckets", cfg.Engine.VolumeProfileBuckets).
		Msg("Configuration loaded")
}

// printReport outputs one block per timeframe and an overall tally
func printReport(symbol string, cfg model.EngineConfig, summaries map[string]*model.IndicatorSummary) {
	fmt.Printf("\n===== %s MULTI-TIMEFRAME ANALYSIS =====\n\n", symbol)
	fmt.Println(notifier.FormatReport(symbol, cfg.Intervals, summaries))

	votes := map[model.Action]int{}
	for _, interval := range cfg.Intervals {
		if s := summaries[interval]; s != nil {
			votes[s.Signal.Action]++
		}
	}
	fmt.Println("\n===== SIGNALS =====")
	fmt.Printf("Buy: %d | Sell: %d | Hold: %d | Unavailable: %d\n",
		votes[model.ActionBuy], votes[model.ActionSell], votes[model.ActionHold],
		len(cfg.Intervals)-votes[model.ActionBuy]-votes[model.ActionSell]-votes[model.ActionHold])
	fmt.Println()
}
