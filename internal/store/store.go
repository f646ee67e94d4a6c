// Package store provides persistence for completed forecast runs.
package store

import (
	"context"
	"time"

	"yield-forecaster/internal/models"
)

// ForecastStore defines the interface for the forecast journal. Persistence
// is best effort: the simulator itself stays stateless and never depends on
// the journal.
type ForecastStore interface {
	SaveForecast(ctx context.Context, scenarioName string, params models.ScenarioParams, result *models.ForecastResult) error
	GetForecasts(ctx context.Context, filter ForecastFilter) ([]ForecastRecord, error)
	Close() error
}

// ForecastFilter represents filters for querying the journal.
type ForecastFilter struct {
	StrategyClass models.StrategyClass
	StartDate     time.Time
	EndDate       time.Time
	Limit         int
}

// ForecastRecord is one journal entry.
type ForecastRecord struct {
	ID           int64                 `json:"id"`
	ScenarioName string                `json:"scenario_name"`
	Params       models.ScenarioParams `json:"params"`
	Result       models.ForecastResult `json:"result"`
	CreatedAt    time.Time             `json:"created_at"`
}
