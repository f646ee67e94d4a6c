package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "yield-forecaster/internal/errors"
	"yield-forecaster/internal/marketdata"
	"yield-forecaster/internal/models"
	"yield-forecaster/pkg/utils"
)

// scriptedSource replays a fixed sequence of uniforms, cycling when
// exhausted.
type scriptedSource struct {
	values []float64
	idx    int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.idx%len(s.values)]
	s.idx++
	return v
}

// countingSource counts how many uniforms a forecast consumes.
type countingSource struct {
	src   Source
	calls int
}

func (c *countingSource) Float64() float64 {
	c.calls++
	return c.src.Float64()
}

// fixedPredictor returns a constant score.
type fixedPredictor struct{ score float64 }

func (p fixedPredictor) Predict(f Features) float64 { return p.score }

func newTestForecaster(src Source, provider marketdata.Provider) *Forecaster {
	return NewForecaster(Options{
		Source:   src,
		Provider: provider,
		Retry:    utils.RetryConfig{MaxAttempts: 1},
		Logger:   zerolog.Nop(),
	})
}

func ptr(v float64) *float64 { return &v }

func TestForecastDeterministicWithSeededSource(t *testing.T) {
	params := models.ScenarioParams{
		StrategyClass:  models.StrategyAggressive,
		Volatility:     0.13,
		HedgeAsset:     "XAU",
		HedgeRatio:     0.4,
		EcoFocus:       true,
		SentimentBoost: ptr(0.7),
		Iterations:     500,
	}
	provider := marketdata.NewStaticProvider(0.13, 100)

	run := func() *models.ForecastResult {
		f := newTestForecaster(NewSource(42), provider)
		res, err := f.Forecast(context.Background(), params)
		require.NoError(t, err)
		return res
	}

	r1, r2 := run(), run()

	// Timestamps differ between calls; everything else must be identical.
	r1.GeneratedAt = time.Time{}
	r2.GeneratedAt = time.Time{}
	require.Equal(t, r1, r2)
}

func TestForecastDrawCount(t *testing.T) {
	// A balanced forecast consumes exactly two regime draws, three draws
	// per sample and one strategy-adjustment draw.
	const iterations = 500
	src := &countingSource{src: NewSource(7)}
	f := newTestForecaster(src, nil)

	_, err := f.Forecast(context.Background(), models.ScenarioParams{
		StrategyClass: models.StrategyBalanced,
		Volatility:    0.13,
		Iterations:    iterations,
	})
	require.NoError(t, err)
	assert.Equal(t, 2+3*iterations+1, src.calls)
}

func TestForecastValidationConsumesNoRandomness(t *testing.T) {
	src := &countingSource{src: NewSource(1)}
	f := newTestForecaster(src, nil)

	_, err := f.Forecast(context.Background(), models.ScenarioParams{
		Volatility: 0.13,
		Iterations: -5,
	})
	require.Error(t, err)
	assert.Zero(t, src.calls)
}

func TestForecastInvalidParameters(t *testing.T) {
	f := newTestForecaster(NewSource(1), nil)

	cases := []struct {
		name   string
		params models.ScenarioParams
	}{
		{"negative iterations", models.ScenarioParams{Iterations: -1}},
		{"confidence too high", models.ScenarioParams{Iterations: 10, ConfidenceLevel: 1.2}},
		{"confidence at one", models.ScenarioParams{Iterations: 10, ConfidenceLevel: 1.0}},
		{"negative volatility", models.ScenarioParams{Iterations: 10, Volatility: -0.1}},
		{"hedge ratio above one", models.ScenarioParams{Iterations: 10, HedgeRatio: 1.5}},
		{"negative hedge ratio", models.ScenarioParams{Iterations: 10, HedgeRatio: -0.2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Forecast(context.Background(), tc.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidParameter))

			var paramErr *apperrors.ParameterError
			assert.True(t, errors.As(err, &paramErr))
		})
	}
}

func TestForecastDefaultsApplied(t *testing.T) {
	f := NewForecaster(Options{
		Defaults: Defaults{Iterations: 50, ConfidenceLevel: 0.9},
		Source:   NewSource(3),
		Logger:   zerolog.Nop(),
	})

	res, err := f.Forecast(context.Background(), models.ScenarioParams{Volatility: 0.13})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Iterations)
	assert.Equal(t, 0.9, res.ConfidenceLevel)
	assert.Equal(t, models.StrategyBalanced, res.StrategyClass)
}

func TestStrategyAdjustmentBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		f := newTestForecaster(NewSource(int64(i)), nil)

		res, err := f.Forecast(context.Background(), models.ScenarioParams{
			StrategyClass: models.StrategyAggressive,
			Volatility:    0.13,
			Iterations:    10,
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.StrategyAdjustment, 5.0)
		assert.Less(t, res.StrategyAdjustment, 15.0)

		res, err = f.Forecast(context.Background(), models.ScenarioParams{
			StrategyClass: models.StrategyDefensive,
			Volatility:    0.13,
			Iterations:    10,
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.StrategyAdjustment, -10.0)
		assert.Less(t, res.StrategyAdjustment, -5.0)
	}
}

func TestEcoBoostFromMultiplier(t *testing.T) {
	f := newTestForecaster(NewSource(11), nil)

	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		StrategyClass:      models.StrategyEcoWeighted,
		Volatility:         0.13,
		EcoFocus:           true,
		EcoBoostMultiplier: ptr(1.35),
		Iterations:         10,
	})
	require.NoError(t, err)

	// (1.35 - 1) * 15 and (1.35 - 1) * 10
	assert.InDelta(t, 5.25, res.EcoBoost, 1e-9)
	assert.InDelta(t, 3.5, res.StrategyAdjustment, 1e-9)
}

func TestEcoBoostDefaults(t *testing.T) {
	f := newTestForecaster(NewSource(12), nil)

	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		StrategyClass: models.StrategyEcoWeighted,
		Volatility:    0.13,
		EcoFocus:      true,
		Iterations:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, res.EcoBoost)
	assert.Equal(t, 3.0, res.StrategyAdjustment)

	res, err = f.Forecast(context.Background(), models.ScenarioParams{
		StrategyClass: models.StrategyBalanced,
		Volatility:    0.13,
		Iterations:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.EcoBoost)
}

func TestSentimentTermCentredOnMidpoint(t *testing.T) {
	f := newTestForecaster(NewSource(13), nil)

	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		Volatility:     0.13,
		SentimentBoost: ptr(0.7),
		Iterations:     10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.SentimentBoost, 1e-9)

	res, err = f.Forecast(context.Background(), models.ScenarioParams{
		Volatility: 0.13,
		Iterations: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SentimentBoost)
}

func TestZeroVolatilityFlatRegime(t *testing.T) {
	// With zero volatility every market movement is zero, so each sample
	// is the regime base yield plus bounded noise. Fixing the first two
	// uniforms pins the regime: base 27.5, yield volatility 0.3.
	values := []float64{0.5, 0.5}
	src := NewSource(21)
	for i := 0; i < 3*200+1; i++ {
		values = append(values, src.Float64())
	}

	f := newTestForecaster(&scriptedSource{values: values}, nil)
	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		StrategyClass: models.StrategyBalanced,
		Volatility:    0,
		Iterations:    200,
	})
	require.NoError(t, err)

	const base, noiseBound = 27.5, 27.5 * 0.3
	assert.InDelta(t, base, res.RawMeanYield, noiseBound)
	assert.GreaterOrEqual(t, res.MinYield, base-noiseBound-1e-9)
	assert.LessOrEqual(t, res.ConfidenceUpper, base+noiseBound+1e-9)
	assert.True(t, res.UsedSyntheticData)
}

func TestSingleIterationDegeneratesGracefully(t *testing.T) {
	f := newTestForecaster(NewSource(5), nil)

	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		Volatility: 0.13,
		Iterations: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, res.MinYield, res.ConfidenceLower)
	assert.Equal(t, res.MinYield, res.ConfidenceUpper)
	assert.Equal(t, res.MinYield, res.RawMeanYield)
	assert.Equal(t, 0.0, res.YieldStdDev)
}

func TestBalancedForecastPlausibleBand(t *testing.T) {
	f := newTestForecaster(NewSource(42), marketdata.NewStaticProvider(0.13, 100))

	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		StrategyClass:   models.StrategyBalanced,
		Volatility:      0.13,
		Iterations:      1000,
		ConfidenceLevel: 0.95,
	})
	require.NoError(t, err)

	// Balanced base yields lie in [20, 35); impact and noise are
	// mean-zero, the strategy bonus adds at most 5.
	assert.Greater(t, res.RawMeanYield, 15.0)
	assert.Less(t, res.RawMeanYield, 40.0)
	assert.Greater(t, res.MeanYield, 15.0)
	assert.Less(t, res.MeanYield, 45.0)
	assert.False(t, res.UsedSyntheticData)

	assert.LessOrEqual(t, res.ConfidenceLower, res.RawMeanYield)
	assert.GreaterOrEqual(t, res.ConfidenceUpper, res.RawMeanYield)
}

func TestHedgeRequiresAsset(t *testing.T) {
	run := func(asset string, ratio float64) *models.ForecastResult {
		f := newTestForecaster(NewSource(9), nil)
		res, err := f.Forecast(context.Background(), models.ScenarioParams{
			Volatility: 0.25,
			HedgeAsset: asset,
			HedgeRatio: ratio,
			Iterations: 100,
		})
		require.NoError(t, err)
		res.GeneratedAt = time.Time{}
		return res
	}

	// A ratio without an asset is a no-op and must match the unhedged run.
	unhedged := run("", 0)
	ratioOnly := run("", 0.5)
	hedged := run("XAU", 0.5)

	assert.Equal(t, unhedged, ratioOnly)
	assert.NotEqual(t, unhedged.RawMeanYield, hedged.RawMeanYield)
}

func TestSyntheticFallbackOnProviderFailure(t *testing.T) {
	failing := marketdata.ProviderFunc(func(ctx context.Context) (models.MarketData, error) {
		return models.MarketData{}, errors.New("connection refused")
	})

	f := newTestForecaster(NewSource(4), failing)
	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		Volatility: 0.13,
		Iterations: 50,
	})
	require.NoError(t, err)
	assert.True(t, res.UsedSyntheticData)
}

func TestPredictorSuppliesAIBoost(t *testing.T) {
	f := NewForecaster(Options{
		Source:    NewSource(6),
		Predictor: fixedPredictor{score: 0.4},
		Logger:    zerolog.Nop(),
	})

	res, err := f.Forecast(context.Background(), models.ScenarioParams{
		Volatility: 0.13,
		Iterations: 10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, res.AIBoost, 1e-9)

	// An explicit parameter always wins over the predictor.
	res, err = f.Forecast(context.Background(), models.ScenarioParams{
		Volatility: 0.13,
		AIBoost:    ptr(0.9),
		Iterations: 10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 18.0, res.AIBoost, 1e-9)
}

func TestAdjustmentsLeaveRawStatisticsAlone(t *testing.T) {
	// Adjustments shift the mean and scale the max; min, std dev and the
	// confidence bounds come from the raw sample set.
	withBoost := models.ScenarioParams{
		StrategyClass:  models.StrategyBalanced,
		Volatility:     0.13,
		SentimentBoost: ptr(1.0),
		Iterations:     200,
	}
	withoutBoost := withBoost
	withoutBoost.SentimentBoost = nil

	run := func(p models.ScenarioParams) *models.ForecastResult {
		f := newTestForecaster(NewSource(33), nil)
		res, err := f.Forecast(context.Background(), p)
		require.NoError(t, err)
		return res
	}

	boosted, plain := run(withBoost), run(withoutBoost)

	assert.Equal(t, plain.RawMeanYield, boosted.RawMeanYield)
	assert.Equal(t, plain.MinYield, boosted.MinYield)
	assert.Equal(t, plain.YieldStdDev, boosted.YieldStdDev)
	assert.Equal(t, plain.ConfidenceLower, boosted.ConfidenceLower)
	assert.Equal(t, plain.ConfidenceUpper, boosted.ConfidenceUpper)

	assert.InDelta(t, plain.MeanYield+10, boosted.MeanYield, 1e-9)
}

func TestForecastHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestForecaster(NewSource(2), nil)
	_, err := f.Forecast(ctx, models.ScenarioParams{
		Volatility: 0.13,
		Iterations: 100000,
	})
	require.ErrorIs(t, err, context.Canceled)
}
