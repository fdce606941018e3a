package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alias1177/Analyzer/internal/analysis/prediction"
	"github.com/Alias1177/Analyzer/internal/database"
	"github.com/Alias1177/Analyzer/internal/metrics"
	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/Alias1177/Analyzer/internal/notifier"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// MultiAnalyzer is the part of the timeframe analyzer the scanner drives.
type MultiAnalyzer interface {
	Analyze(ctx context.Context, symbol string) model.MultiTimeframe
	Config() model.EngineConfig
}

// Report describes one scan run.
type Report struct {
	RunID      uuid.UUID
	Symbols    int
	Timeframes int
	Failed     int
	Alerts     int
}

// Scanner periodically analyzes a watchlist, records the results and alerts on
// signal changes.
type Scanner struct {
	Cron      *cron.Cron
	Analyzer  MultiAnalyzer
	Recorder  database.Recorder
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Watchlist []string
	Ctx       context.Context

	logger zerolog.Logger
}

// NewScanner creates a scanner whose cron skips a tick while the previous run is still going.
func NewScanner(ctx context.Context, analyzer MultiAnalyzer, rec database.Recorder, n notifier.Notifier, watchlist []string) *Scanner {
	l := logger.Component("scanner")
	cl := cronLogger{l}
	return &Scanner{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Analyzer:  analyzer,
		Recorder:  rec,
		Notifier:  n,
		Watchlist: watchlist,
		Ctx:       ctx,
		logger:    l,
	}
}

// cronLogger routes cron's own messages into zerolog. Routine scheduler
// chatter goes to debug.
type cronLogger struct {
	zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Register schedules the watchlist scan.
func (s *Scanner) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scanner) Start() {
	s.Cron.Start()
	s.logger.Info().Int("symbols", len(s.Watchlist)).Msg("Scanner started")
}

// Stop stops the scheduler and waits for a running scan to finish.
func (s *Scanner) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("Scanner stopped")
}

func (s *Scanner) scanTask() {
	report, err := s.RunOnce(s.Ctx)
	s.Metrics.ObserveScan(err)
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", report.RunID.String()).Msg("Scan finished with errors")
		return
	}
	s.logger.Info().
		Str("run_id", report.RunID.String()).
		Int("timeframes", report.Timeframes).
		Int("failed", report.Failed).
		Int("alerts", report.Alerts).
		Msg("Scan finished")
}

// RunOnce analyzes every watchlist symbol immediately.
func (s *Scanner) RunOnce(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.New()}
	cfg := s.Analyzer.Config()
	var errs []error

	for _, symbol := range s.Watchlist {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report.Symbols++

		result := s.Analyzer.Analyze(ctx, symbol)
		summaries := prediction.SummarizeAll(symbol, result, cfg)

		for _, interval := range cfg.Intervals {
			summary := summaries[interval]
			if summary == nil {
				report.Failed++
				continue
			}
			report.Timeframes++
			s.Metrics.ObserveSignal(string(summary.Signal.Action))

			alerted, err := s.record(ctx, report.RunID, summary)
			if err != nil {
				errs = append(errs, err)
			}
			if alerted {
				report.Alerts++
			}
		}
	}
	return report, errors.Join(errs...)
}

// record persists one summary and alerts when its signal changed to buy or sell.
// A failed write is reported but does not suppress the alert.
func (s *Scanner) record(ctx context.Context, runID uuid.UUID, summary *model.IndicatorSummary) (bool, error) {
	previous, err := s.Recorder.LatestSignal(ctx, summary.Symbol, summary.Interval)
	if err != nil {
		return false, err
	}

	var errs []error
	if err := s.Recorder.SaveSnapshot(ctx, runID, summary); err != nil {
		s.logger.Error().Err(err).Str("symbol", summary.Symbol).Str("interval", summary.Interval).Msg("Failed to save snapshot")
		errs = append(errs, err)
	}
	if err := s.Recorder.SaveSignal(ctx, runID, summary); err != nil {
		s.logger.Error().Err(err).Str("symbol", summary.Symbol).Str("interval", summary.Interval).Msg("Failed to save signal")
		errs = append(errs, err)
	}

	action := summary.Signal.Action
	if action == model.ActionHold || (previous != nil && previous.Action == action) {
		return false, errors.Join(errs...)
	}
	if err := s.Notifier.Notify(ctx, notifier.FormatSummary(summary)); err != nil {
		return false, errors.Join(append(errs, err)...)
	}
	return true, errors.Join(errs...)
}
