// Package models provides domain models for the yield forecaster.
package models

// StrategyClass selects which base-yield and dispersion regime a scenario
// samples from, and which bias constants apply.
type StrategyClass string

const (
	StrategyAggressive  StrategyClass = "aggressive"
	StrategyBalanced    StrategyClass = "balanced"
	StrategyDefensive   StrategyClass = "defensive"
	StrategyEcoWeighted StrategyClass = "ecoWeighted"
)

// Valid reports whether the strategy class is one of the known values.
func (s StrategyClass) Valid() bool {
	switch s {
	case StrategyAggressive, StrategyBalanced, StrategyDefensive, StrategyEcoWeighted:
		return true
	}
	return false
}

// ScenarioParams describes a single forecast request. A value is constructed
// by the caller per request; the simulator never mutates it.
type ScenarioParams struct {
	StrategyClass StrategyClass `json:"strategy_class"`

	// Volatility drives sample dispersion when no market data is available.
	// Zero is valid and produces a flat market regime.
	Volatility float64 `json:"volatility"`

	// HedgeAsset and HedgeRatio dampen sampled market impact. The hedge is
	// applied only when both an asset is named and the ratio is positive.
	HedgeAsset string  `json:"hedge_asset,omitempty"`
	HedgeRatio float64 `json:"hedge_ratio"`

	// Optional linear adjustment inputs. Nil means "not provided", which is
	// distinct from an explicit zero.
	EcoFocus           bool     `json:"eco_focus"`
	EcoBoostMultiplier *float64 `json:"eco_boost_multiplier,omitempty"`
	SentimentBoost     *float64 `json:"sentiment_boost,omitempty"`
	AIBoost            *float64 `json:"ai_boost,omitempty"`

	// Iterations is the Monte Carlo sample count. Zero means "use the
	// forecaster default"; negative values are rejected.
	Iterations int `json:"iterations"`

	// ConfidenceLevel is the width of the empirical confidence interval.
	// Zero means "use the forecaster default".
	ConfidenceLevel float64 `json:"confidence_level"`
}

// SimulationSample is one Monte Carlo draw. Samples are ephemeral: produced
// and consumed within a single forecast call, never persisted.
type SimulationSample struct {
	YieldValue     float64
	MarketMovement float64
	Impact         float64
	NoiseTerm      float64
}
