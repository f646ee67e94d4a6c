package marketdata

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "yield-forecaster/internal/errors"
	"yield-forecaster/internal/models"
)

// priceRow is one row of a price-history CSV file.
type priceRow struct {
	Timestamp string  `csv:"timestamp"`
	Price     float64 `csv:"price"`
}

// CSVProvider derives a market snapshot from a local price-history CSV file
// with "timestamp,price" columns. The base volatility is the population
// standard deviation of log returns over the file; the base price is the
// last row's price.
type CSVProvider struct {
	Path string
}

// NewCSVProvider creates a provider reading the given CSV file.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

func (p *CSVProvider) Snapshot(ctx context.Context) (models.MarketData, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return models.MarketData{}, apperrors.NewDataSourceError(SourceCSV, err)
	}
	defer f.Close()

	var rows []*priceRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return models.MarketData{}, apperrors.NewDataSourceError(SourceCSV, err)
	}
	if len(rows) < 2 {
		return models.MarketData{}, apperrors.NewDataSourceError(SourceCSV, apperrors.ErrInsufficientHistory)
	}

	returns := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1].Price, rows[i].Price
		if prev > 0 && cur > 0 {
			returns = append(returns, math.Log(cur/prev))
		}
	}
	if len(returns) == 0 {
		return models.MarketData{}, apperrors.NewDataSourceError(SourceCSV, apperrors.ErrInsufficientHistory)
	}

	return models.MarketData{
		BaseVolatility: stdDevPop(returns),
		BasePrice:      rows[len(rows)-1].Price,
		Source:         SourceCSV,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// stdDevPop calculates the population standard deviation of a slice.
func stdDevPop(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var m float64
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
