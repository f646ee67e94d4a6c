package simulation

import (
	"math"

	"yield-forecaster/internal/models"
)

// Scaling constants for converting bounded market impact into yield points.
const (
	impactScale = 20
	hedgeScale  = 15
)

// regime holds the base values shared by every sample of one forecast call.
// The ranges are sampled once per call, not per sample, so all draws are
// coupled to a single random regime.
type regime struct {
	BaseYield       float64
	YieldVolatility float64
}

// strategyRange defines the base-yield and yield-volatility bands for a
// strategy class.
type strategyRange struct {
	yieldLo, yieldHi float64
	volLo, volHi     float64
}

var strategyRanges = map[models.StrategyClass]strategyRange{
	models.StrategyAggressive:  {yieldLo: 35, yieldHi: 50, volLo: 0.4, volHi: 0.7},
	models.StrategyDefensive:   {yieldLo: 15, yieldHi: 25, volLo: 0.1, volHi: 0.25},
	models.StrategyEcoWeighted: {yieldLo: 25, yieldHi: 40, volLo: 0.2, volHi: 0.4},
	models.StrategyBalanced:    {yieldLo: 20, yieldHi: 35, volLo: 0.2, volHi: 0.4},
}

// drawRegime samples the shared base yield and yield volatility for one
// forecast call. Unknown classes use the balanced bands.
func drawRegime(src Source, class models.StrategyClass) regime {
	r, ok := strategyRanges[class]
	if !ok {
		r = strategyRanges[models.StrategyBalanced]
	}
	return regime{
		BaseYield:       uniformRange(src, r.yieldLo, r.yieldHi),
		YieldVolatility: uniformRange(src, r.volLo, r.volHi),
	}
}

// drawSample produces one Monte Carlo draw. The sampled market movement is a
// normal deviate scaled by the base volatility; its influence on yield is
// bounded to (-1, 1) through tanh before scaling. A configured hedge
// subtracts impact proportionally to the hedge ratio, which dampens adverse
// movement and can invert favourable movement.
func drawSample(src Source, params models.ScenarioParams, reg regime, baseVolatility float64) models.SimulationSample {
	z := normal(src)
	movement := z * baseVolatility
	impact := math.Tanh(2 * movement)
	noise := uniformSigned(src) * reg.BaseYield * reg.YieldVolatility

	yield := reg.BaseYield + impact*impactScale + noise
	if params.HedgeAsset != "" && params.HedgeRatio > 0 {
		yield -= impact * params.HedgeRatio * hedgeScale
	}

	return models.SimulationSample{
		YieldValue:     yield,
		MarketMovement: movement,
		Impact:         impact,
		NoiseTerm:      noise,
	}
}
