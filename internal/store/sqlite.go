package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "yield-forecaster/internal/errors"
	"yield-forecaster/internal/models"
)

// SQLiteStore implements ForecastStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed forecast journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the journal table and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Forecast journal: one row per completed run. Scalar columns cover the
	-- queryable fields; the full request and result are kept as JSON.
	CREATE TABLE IF NOT EXISTS forecasts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_name TEXT,
		strategy_class TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		mean_yield REAL NOT NULL,
		raw_mean_yield REAL NOT NULL,
		success_probability REAL NOT NULL,
		used_synthetic INTEGER NOT NULL DEFAULT 0,
		params TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_forecasts_strategy ON forecasts(strategy_class);
	CREATE INDEX IF NOT EXISTS idx_forecasts_created ON forecasts(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveForecast appends one completed run to the journal.
func (s *SQLiteStore) SaveForecast(ctx context.Context, scenarioName string, params models.ScenarioParams, result *models.ForecastResult) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return apperrors.NewStoreError("save_forecast", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return apperrors.NewStoreError("save_forecast", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO forecasts (
			scenario_name, strategy_class, iterations, mean_yield,
			raw_mean_yield, success_probability, used_synthetic,
			params, result, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scenarioName,
		string(result.StrategyClass),
		result.Iterations,
		result.MeanYield,
		result.RawMeanYield,
		result.SuccessProbability,
		boolToInt(result.UsedSyntheticData),
		string(paramsJSON),
		string(resultJSON),
		result.GeneratedAt,
	)
	if err != nil {
		return apperrors.NewStoreError("save_forecast", err)
	}
	return nil
}

// GetForecasts returns journal entries matching the filter, newest first.
func (s *SQLiteStore) GetForecasts(ctx context.Context, filter ForecastFilter) ([]ForecastRecord, error) {
	query := `SELECT id, scenario_name, params, result, created_at FROM forecasts`

	var conditions []string
	var args []interface{}

	if filter.StrategyClass != "" {
		conditions = append(conditions, "strategy_class = ?")
		args = append(args, string(filter.StrategyClass))
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.EndDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get_forecasts", err)
	}
	defer rows.Close()

	var records []ForecastRecord
	for rows.Next() {
		var rec ForecastRecord
		var paramsJSON, resultJSON string
		if err := rows.Scan(&rec.ID, &rec.ScenarioName, &paramsJSON, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("get_forecasts", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &rec.Params); err != nil {
			return nil, apperrors.NewStoreError("get_forecasts", err)
		}
		if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
			return nil, apperrors.NewStoreError("get_forecasts", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("get_forecasts", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
