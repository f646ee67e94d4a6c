package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yield-forecaster/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(strategy models.StrategyClass, mean float64, at time.Time) *models.ForecastResult {
	return &models.ForecastResult{
		MeanYield:          mean,
		RawMeanYield:       mean - 2,
		MaxYield:           mean + 10,
		MinYield:           mean - 10,
		YieldStdDev:        3.5,
		ConfidenceLower:    mean - 6,
		ConfidenceUpper:    mean + 6,
		SuccessProbability: 0.9,
		Iterations:         1000,
		StrategyClass:      strategy,
		ConfidenceLevel:    0.95,
		GeneratedAt:        at,
	}
}

func TestSaveAndGetForecasts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mult := 1.35
	params := models.ScenarioParams{
		StrategyClass:      models.StrategyEcoWeighted,
		Volatility:         0.13,
		EcoFocus:           true,
		EcoBoostMultiplier: &mult,
		Iterations:         1000,
		ConfidenceLevel:    0.95,
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveForecast(ctx, "eco-run", params,
		sampleResult(models.StrategyEcoWeighted, 25, base)))
	require.NoError(t, s.SaveForecast(ctx, "agg-run", models.ScenarioParams{StrategyClass: models.StrategyAggressive},
		sampleResult(models.StrategyAggressive, 40, base.Add(time.Hour))))
	require.NoError(t, s.SaveForecast(ctx, "def-run", models.ScenarioParams{StrategyClass: models.StrategyDefensive},
		sampleResult(models.StrategyDefensive, 18, base.Add(2*time.Hour))))

	records, err := s.GetForecasts(ctx, ForecastFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "def-run", records[0].ScenarioName)
	assert.Equal(t, "eco-run", records[2].ScenarioName)

	// Pointer fields survive the JSON round trip.
	eco := records[2]
	require.NotNil(t, eco.Params.EcoBoostMultiplier)
	assert.Equal(t, 1.35, *eco.Params.EcoBoostMultiplier)
	assert.Nil(t, eco.Params.SentimentBoost)
	assert.Equal(t, 25.0, eco.Result.MeanYield)
	assert.Equal(t, models.StrategyEcoWeighted, eco.Result.StrategyClass)
}

func TestGetForecastsFilterByStrategy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.SaveForecast(ctx, "a", models.ScenarioParams{},
		sampleResult(models.StrategyAggressive, 40, now)))
	require.NoError(t, s.SaveForecast(ctx, "b", models.ScenarioParams{},
		sampleResult(models.StrategyBalanced, 27, now)))

	records, err := s.GetForecasts(ctx, ForecastFilter{StrategyClass: models.StrategyAggressive})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ScenarioName)
}

func TestGetForecastsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveForecast(ctx, "run", models.ScenarioParams{},
			sampleResult(models.StrategyBalanced, 27, base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := s.GetForecasts(ctx, ForecastFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGetForecastsDateRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveForecast(ctx, "run", models.ScenarioParams{},
			sampleResult(models.StrategyBalanced, 27, base.AddDate(0, 0, i))))
	}

	records, err := s.GetForecasts(ctx, ForecastFilter{
		StartDate: base.AddDate(0, 0, 1),
		EndDate:   base.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetForecastsEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.GetForecasts(context.Background(), ForecastFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
