package simulation

import "yield-forecaster/internal/models"

// adjustments holds the resolved scenario bias terms, in yield points. The
// terms are additive to the mean and scale the max; they never alter the
// raw minimum, standard deviation or percentile bounds.
type adjustments struct {
	Strategy  float64
	Eco       float64
	Sentiment float64
	AI        float64
}

// total returns the summed adjustment, which doubles as the percentage
// applied to the maximum yield.
func (a adjustments) total() float64 {
	return a.Strategy + a.Eco + a.Sentiment + a.AI
}

// drawStrategyAdjustment resolves the per-class bias term. Aggressive and
// balanced classes draw a uniform bonus, defensive draws a penalty, and
// ecoWeighted derives the term from the boost multiplier when provided.
func drawStrategyAdjustment(src Source, params models.ScenarioParams) float64 {
	switch params.StrategyClass {
	case models.StrategyAggressive:
		return uniformRange(src, 5, 15)
	case models.StrategyDefensive:
		return uniformRange(src, -10, -5)
	case models.StrategyEcoWeighted:
		if params.EcoBoostMultiplier != nil {
			return (*params.EcoBoostMultiplier - 1) * 10
		}
		return 3
	default:
		return uniformRange(src, 0, 5)
	}
}

// ecoBoostTerm resolves the eco-focus bonus: scaled from the multiplier when
// provided, a flat 7.5 otherwise, zero without eco focus.
func ecoBoostTerm(params models.ScenarioParams) float64 {
	if !params.EcoFocus {
		return 0
	}
	if params.EcoBoostMultiplier != nil {
		return (*params.EcoBoostMultiplier - 1) * 15
	}
	return 7.5
}

// sentimentTerm converts the sentiment score into a bias centred on 0.5:
// bullish sentiment above the midpoint adds yield, bearish subtracts.
func sentimentTerm(params models.ScenarioParams) float64 {
	if params.SentimentBoost == nil {
		return 0
	}
	return (*params.SentimentBoost - 0.5) * 20
}
