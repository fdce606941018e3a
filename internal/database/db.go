package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DB represents a database connection
type DB struct {
	*sql.DB
	now func() time.Time
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StoredSignal is a persisted classification.
type StoredSignal struct {
	Symbol      string
	Timeframe   string
	Action      model.Action
	Confidence  float64
	GeneratedAt time.Time
	RunID       uuid.UUID
}

// Recorder persists indicator snapshots and signals.
type Recorder interface {
	SaveSnapshot(ctx context.Context, runID uuid.UUID, summary *model.IndicatorSummary) error
	SaveSignal(ctx context.Context, runID uuid.UUID, summary *model.IndicatorSummary) error
	// LatestSignal returns nil when nothing was recorded for the pair yet.
	LatestSignal(ctx context.Context, symbol, timeframe string) (*StoredSignal, error)
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	// Create PostgreSQL connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := Wrap(sqlDB)
	// Create tables if they don't exist
	if err := db.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Wrap adopts an open connection pool without touching the schema.
func Wrap(sqlDB *sql.DB) *DB {
	return &DB{DB: sqlDB, now: time.Now}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS indicator_values (
		id BIGSERIAL PRIMARY KEY,
		symbol VARCHAR(20) NOT NULL,
		timeframe VARCHAR(10) NOT NULL,
		open_time TIMESTAMPTZ NOT NULL,
		close NUMERIC NOT NULL,
		ma_20 NUMERIC,
		ma_200 NUMERIC,
		macd NUMERIC,
		rsi NUMERIC(8, 4),
		stoch_rsi NUMERIC(8, 4),
		volume NUMERIC,
		run_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (symbol, timeframe, open_time)
	)`,
	// tables created with fixed precision overflowed on large volumes
	`ALTER TABLE indicator_values
		ALTER COLUMN close TYPE NUMERIC,
		ALTER COLUMN ma_20 TYPE NUMERIC,
		ALTER COLUMN ma_200 TYPE NUMERIC,
		ALTER COLUMN macd TYPE NUMERIC,
		ALTER COLUMN volume TYPE NUMERIC`,
	`CREATE TABLE IF NOT EXISTS bot_signals (
		id BIGSERIAL PRIMARY KEY,
		symbol VARCHAR(20) NOT NULL,
		timeframe VARCHAR(10) NOT NULL,
		signal_type VARCHAR(4) NOT NULL CHECK (signal_type IN ('buy', 'sell', 'hold')),
		confidence NUMERIC(5, 4) NOT NULL,
		factors TEXT NOT NULL DEFAULT '',
		generated_at TIMESTAMPTZ NOT NULL,
		run_id UUID NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS bot_signals_lookup ON bot_signals (symbol, timeframe, generated_at DESC)`,
}

// Migrate creates the tables if they don't exist
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveSnapshot upserts the latest indicator readings of one timeframe.
func (db *DB) SaveSnapshot(ctx context.Context, runID uuid.UUID, s *model.IndicatorSummary) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO indicator_values (
			symbol, timeframe, open_time, close, ma_20, ma_200, macd, rsi, stoch_rsi, volume, run_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol, timeframe, open_time)
		DO UPDATE SET
			close = EXCLUDED.close,
			ma_20 = EXCLUDED.ma_20,
			ma_200 = EXCLUDED.ma_200,
			macd = EXCLUDED.macd,
			rsi = EXCLUDED.rsi,
			stoch_rsi = EXCLUDED.stoch_rsi,
			volume = EXCLUDED.volume,
			run_id = EXCLUDED.run_id
	`,
		s.Symbol, s.Interval, time.UnixMilli(s.OpenTime).UTC(),
		decimal.NewFromFloat(s.Close),
		nullDecimal(s, "ma20"),
		nullDecimal(s, "ma200"),
		nullDecimal(s, "macd"),
		nullDecimal(s, "rsi"),
		nullDecimal(s, "stochRsi"),
		decimal.NewFromFloat(s.Volume),
		runID,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s %s: %w", s.Symbol, s.Interval, err)
	}
	return nil
}

// SaveSignal appends the classification of one timeframe.
func (db *DB) SaveSignal(ctx context.Context, runID uuid.UUID, s *model.IndicatorSummary) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO bot_signals (symbol, timeframe, signal_type, confidence, factors, generated_at, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		s.Symbol, s.Interval, string(s.Signal.Action),
		decimal.NewFromFloat(s.Signal.Confidence).Round(4),
		strings.Join(s.Signal.Factors, "; "),
		db.now().UTC(),
		runID,
	)
	if err != nil {
		return fmt.Errorf("save signal %s %s: %w", s.Symbol, s.Interval, err)
	}
	return nil
}

// LatestSignal retrieves the most recent signal of a symbol and timeframe
func (db *DB) LatestSignal(ctx context.Context, symbol, timeframe string) (*StoredSignal, error) {
	var sig StoredSignal
	var action string
	var confidence decimal.Decimal

	err := db.QueryRowContext(ctx, `
		SELECT symbol, timeframe, signal_type, confidence, generated_at, run_id
		FROM bot_signals
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`, symbol, timeframe).Scan(
		&sig.Symbol, &sig.Timeframe, &action, &confidence, &sig.GeneratedAt, &sig.RunID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No signal recorded yet
		}
		return nil, fmt.Errorf("latest signal %s %s: %w", symbol, timeframe, err)
	}

	sig.Action = model.Action(action)
	sig.Confidence = confidence.InexactFloat64()
	return &sig, nil
}

func nullDecimal(s *model.IndicatorSummary, name string) decimal.NullDecimal {
	v, ok := s.Value(name)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

// Noop is the Recorder used when no database is configured.
type Noop struct{}

func (Noop) SaveSnapshot(context.Context, uuid.UUID, *model.IndicatorSummary) error {
	return nil
}

func (Noop) SaveSignal(context.Context, uuid.UUID, *model.IndicatorSummary) error {
	return nil
}

func (Noop) LatestSignal(context.Context, string, string) (*StoredSignal, error) {
	return nil, nil
}
