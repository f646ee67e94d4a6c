package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	apperrors "yield-forecaster/internal/errors"
	"yield-forecaster/internal/logging"
	"yield-forecaster/internal/marketdata"
	"yield-forecaster/internal/models"
	"yield-forecaster/pkg/utils"
)

// Construction-time fallbacks for unset scenario parameters.
const (
	DefaultIterations      = 1000
	DefaultConfidenceLevel = 0.95
	DefaultVolatility      = 0.13
)

// cancelCheckInterval is how many samples are drawn between context checks.
const cancelCheckInterval = 1024

// Options configures a Forecaster. Nil fields fall back to a time-seeded
// source, no market-data provider (synthetic data only), no predictor and a
// no-op logger.
type Options struct {
	Defaults  Defaults
	Source    Source
	Provider  marketdata.Provider
	Predictor Predictor
	Retry     utils.RetryConfig
	Logger    zerolog.Logger
}

// Defaults holds the fixed configuration applied to scenario parameters left
// at their zero value.
type Defaults struct {
	Iterations      int
	ConfidenceLevel float64
}

// Forecaster runs Monte Carlo yield simulations. It is stateless across
// calls apart from the fixed configuration set at construction time, so one
// instance may serve concurrent forecasts without coordination.
type Forecaster struct {
	defaults  Defaults
	source    Source
	provider  marketdata.Provider
	predictor Predictor
	retry     utils.RetryConfig
	logger    zerolog.Logger
}

// NewForecaster creates a Forecaster from the given options.
func NewForecaster(opts Options) *Forecaster {
	if opts.Defaults.Iterations <= 0 {
		opts.Defaults.Iterations = DefaultIterations
	}
	if opts.Defaults.ConfidenceLevel <= 0 || opts.Defaults.ConfidenceLevel >= 1 {
		opts.Defaults.ConfidenceLevel = DefaultConfidenceLevel
	}
	if opts.Source == nil {
		opts.Source = NewTimeSource()
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = utils.DefaultRetryConfig()
	}
	return &Forecaster{
		defaults:  opts.Defaults,
		source:    opts.Source,
		provider:  opts.Provider,
		predictor: opts.Predictor,
		retry:     opts.Retry,
		logger:    opts.Logger,
	}
}

// Forecast draws params.Iterations independent samples and reduces them to a
// ForecastResult. The market-data provider is consulted first; when it is
// missing or keeps failing after retries, the run falls back to synthetic
// data derived from the scenario volatility and continues.
//
// The injected Source is consumed in a fixed order: two regime draws, three
// draws per sample, then at most one strategy-adjustment draw. Replaying the
// same sequence with identical parameters reproduces the result bit for bit,
// timestamp aside.
func (f *Forecaster) Forecast(ctx context.Context, params models.ScenarioParams) (*models.ForecastResult, error) {
	params = f.applyDefaults(params)
	if err := validateParams(params); err != nil {
		return nil, err
	}

	md, synthetic := f.resolveMarketData(ctx, params)

	reg := drawRegime(f.source, params.StrategyClass)

	yields := make([]float64, params.Iterations)
	for i := 0; i < params.Iterations; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		yields[i] = drawSample(f.source, params, reg, md.BaseVolatility).YieldValue
	}

	rawMean := mean(yields)
	sd := stdDevPop(yields)
	minY, maxY := minMax(yields)

	sorted := append([]float64(nil), yields...)
	sort.Float64s(sorted)
	lower, upper := percentileBounds(sorted, params.ConfidenceLevel)

	var volRatio float64
	if rawMean != 0 {
		volRatio = sd / rawMean
	}

	adj := adjustments{
		Strategy:  drawStrategyAdjustment(f.source, params),
		Eco:       ecoBoostTerm(params),
		Sentiment: sentimentTerm(params),
		AI:        f.aiBoostTerm(params, md),
	}

	result := &models.ForecastResult{
		MeanYield:          rawMean + adj.total(),
		RawMeanYield:       rawMean,
		MaxYield:           maxY * (1 + adj.total()/100),
		MinYield:           minY,
		YieldStdDev:        sd,
		ConfidenceLower:    lower,
		ConfidenceUpper:    upper,
		VolatilityRatio:    volRatio,
		SuccessProbability: successProbability(yields),
		StrategyAdjustment: adj.Strategy,
		EcoBoost:           adj.Eco,
		SentimentBoost:     adj.Sentiment,
		AIBoost:            adj.AI,
		Iterations:         params.Iterations,
		StrategyClass:      params.StrategyClass,
		ConfidenceLevel:    params.ConfidenceLevel,
		UsedSyntheticData:  synthetic,
		GeneratedAt:        time.Now().UTC(),
	}

	logging.LogForecast(f.logger, string(params.StrategyClass), params.Iterations, result.MeanYield, result.SuccessProbability)

	return result, nil
}

// applyDefaults fills zero-valued parameters from the construction-time
// defaults. Zero volatility is left alone: a flat market is a valid scenario.
func (f *Forecaster) applyDefaults(params models.ScenarioParams) models.ScenarioParams {
	if params.StrategyClass == "" {
		params.StrategyClass = models.StrategyBalanced
	}
	if params.Iterations == 0 {
		params.Iterations = f.defaults.Iterations
	}
	if params.ConfidenceLevel == 0 {
		params.ConfidenceLevel = f.defaults.ConfidenceLevel
	}
	return params
}

// validateParams rejects inputs the sampler cannot honour. Validation runs
// before any randomness is consumed.
func validateParams(params models.ScenarioParams) error {
	if params.Iterations <= 0 {
		return apperrors.NewParameterError("iterations", params.Iterations, "must be positive")
	}
	if params.ConfidenceLevel <= 0 || params.ConfidenceLevel >= 1 {
		return apperrors.NewParameterError("confidence_level", params.ConfidenceLevel, "must be in (0, 1)")
	}
	if params.Volatility < 0 {
		return apperrors.NewParameterError("volatility", params.Volatility, "must be non-negative")
	}
	if params.HedgeRatio < 0 || params.HedgeRatio > 1 {
		return apperrors.NewParameterError("hedge_ratio", params.HedgeRatio, "must be in [0, 1]")
	}
	return nil
}

// resolveMarketData fetches a snapshot from the configured provider, retrying
// with backoff. Provider failure is a degraded condition, not an error: the
// fallback snapshot is derived deterministically from the scenario
// volatility and the forecast continues.
func (f *Forecaster) resolveMarketData(ctx context.Context, params models.ScenarioParams) (models.MarketData, bool) {
	if f.provider == nil {
		return marketdata.Synthetic(params.Volatility), true
	}

	md, err := utils.RetryWithResult(ctx, f.retry, func() (models.MarketData, error) {
		return f.provider.Snapshot(ctx)
	})
	if err != nil {
		logging.LogDataFallback(f.logger, err)
		return marketdata.Synthetic(params.Volatility), true
	}
	return md, false
}

// aiBoostTerm resolves the AI bias term. An explicit parameter always wins;
// otherwise a configured predictor scores the market features.
func (f *Forecaster) aiBoostTerm(params models.ScenarioParams, md models.MarketData) float64 {
	if params.AIBoost != nil {
		return *params.AIBoost * 20
	}
	if f.predictor != nil {
		score := f.predictor.Predict(Features{
			BaseVolatility: md.BaseVolatility,
			BasePrice:      md.BasePrice,
			HedgeRatio:     params.HedgeRatio,
		})
		return score * 20
	}
	return 0
}
