// Package marketdata provides market snapshot providers for the simulator.
//
// A provider is an injected collaborator: the simulator only needs a base
// volatility and a reference price, and falls back to synthetic values when
// the provider fails.
package marketdata

import (
	"context"
	"time"

	"yield-forecaster/internal/models"
)

// Known snapshot sources.
const (
	SourceStatic    = "static"
	SourceSynthetic = "synthetic"
	SourceCSV       = "csv"
)

// defaultBasePrice anchors synthetic snapshots that have no price history.
const defaultBasePrice = 100

// Provider supplies a point-in-time market snapshot.
type Provider interface {
	Snapshot(ctx context.Context) (models.MarketData, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (models.MarketData, error)

func (f ProviderFunc) Snapshot(ctx context.Context) (models.MarketData, error) {
	return f(ctx)
}

// StaticProvider returns a fixed snapshot. Useful for tests and replays.
type StaticProvider struct {
	Data models.MarketData
}

// NewStaticProvider creates a provider pinned to the given volatility and
// price.
func NewStaticProvider(volatility, price float64) *StaticProvider {
	return &StaticProvider{
		Data: models.MarketData{
			BaseVolatility: volatility,
			BasePrice:      price,
			Source:         SourceStatic,
			Timestamp:      time.Now().UTC(),
		},
	}
}

func (p *StaticProvider) Snapshot(ctx context.Context) (models.MarketData, error) {
	return p.Data, nil
}

// Synthetic returns the deterministic fallback snapshot derived from the
// scenario volatility. It is used whenever no provider is configured or the
// configured provider keeps failing.
func Synthetic(volatility float64) models.MarketData {
	return models.MarketData{
		BaseVolatility: volatility,
		BasePrice:      defaultBasePrice,
		Source:         SourceSynthetic,
		Timestamp:      time.Now().UTC(),
	}
}
