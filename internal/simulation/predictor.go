package simulation

// Features are the market observables fed to a Predictor.
type Features struct {
	BaseVolatility float64
	BasePrice      float64
	HedgeRatio     float64
}

// Predictor scores a feature set in [0, 1]. Implementations must be
// deterministic for a given feature set so forecasts stay replayable.
type Predictor interface {
	Predict(f Features) float64
}

// WeightedSumPredictor is the default Predictor: a fixed weighted sum of
// market features squashed into [0, 1]. It is a formula, not a model; no
// learning occurs anywhere in this codebase.
type WeightedSumPredictor struct {
	VolatilityWeight float64
	PriceWeight      float64
	HedgeWeight      float64
	Bias             float64
}

// NewWeightedSumPredictor creates a predictor with the default weights:
// volatility lowers the score, a configured hedge raises it.
func NewWeightedSumPredictor() *WeightedSumPredictor {
	return &WeightedSumPredictor{
		VolatilityWeight: -0.8,
		PriceWeight:      0.0001,
		HedgeWeight:      0.25,
		Bias:             0.3,
	}
}

func (p *WeightedSumPredictor) Predict(f Features) float64 {
	score := p.Bias +
		p.VolatilityWeight*f.BaseVolatility +
		p.PriceWeight*f.BasePrice +
		p.HedgeWeight*f.HedgeRatio
	return clamp01(score)
}
