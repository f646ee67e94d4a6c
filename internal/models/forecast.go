package models

import "time"

// ForecastResult is the statistical summary of one Monte Carlo run.
//
// MeanYield and MaxYield carry the scenario bias terms; RawMeanYield,
// MinYield, YieldStdDev and the confidence bounds are computed from the
// unadjusted sample set. The asymmetry is deliberate behaviour.
type ForecastResult struct {
	MeanYield    float64 `json:"mean_yield"`
	RawMeanYield float64 `json:"raw_mean_yield"`
	MaxYield     float64 `json:"max_yield"`
	MinYield     float64 `json:"min_yield"`
	YieldStdDev  float64 `json:"yield_std_dev"`

	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`

	// VolatilityRatio is stdDev/mean over raw yields, zero when the raw
	// mean is zero.
	VolatilityRatio float64 `json:"volatility_ratio"`

	// SuccessProbability is the fraction of samples with positive yield.
	SuccessProbability float64 `json:"success_probability"`

	// Resolved adjustment terms, in yield points.
	StrategyAdjustment float64 `json:"strategy_adjustment"`
	EcoBoost           float64 `json:"eco_boost"`
	SentimentBoost     float64 `json:"sentiment_boost"`
	AIBoost            float64 `json:"ai_boost"`

	// Echoed request metadata.
	Iterations      int           `json:"iterations"`
	StrategyClass   StrategyClass `json:"strategy_class"`
	ConfidenceLevel float64       `json:"confidence_level"`

	// UsedSyntheticData is true when the market-data provider was missing
	// or failed and the run fell back to synthetic parameters.
	UsedSyntheticData bool `json:"used_synthetic_data"`

	GeneratedAt time.Time `json:"generated_at"`
}
