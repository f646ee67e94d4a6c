package simulation

import (
	"context"
	"sync"

	"yield-forecaster/internal/models"
	"yield-forecaster/internal/performance"
)

// Scenario pairs a name with the parameters for one batch entry.
type Scenario struct {
	Name   string                `json:"name"`
	Params models.ScenarioParams `json:"params"`
}

// BatchResult is the outcome of one scenario in a batch run.
type BatchResult struct {
	Name   string
	Result *models.ForecastResult
	Err    error
}

// RunBatch executes independent forecasts concurrently on a worker pool and
// returns results in scenario order. Forecast calls share no mutable state,
// so the only requirement is that the forecaster's source is safe for
// concurrent use; the default time-seeded source is.
func RunBatch(ctx context.Context, f *Forecaster, scenarios []Scenario, workers int) []BatchResult {
	results := make([]BatchResult, len(scenarios))

	pool := performance.NewWorkerPool(workers)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		i, sc := i, sc
		wg.Add(1)
		task := func() {
			defer wg.Done()
			res, err := f.Forecast(ctx, sc.Params)
			results[i] = BatchResult{Name: sc.Name, Result: res, Err: err}
		}
		if !pool.Submit(task) {
			// Queue full or pool stopped: run inline rather than drop.
			task()
		}
	}
	wg.Wait()

	return results
}
