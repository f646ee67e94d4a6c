package models

import "time"

// MarketData is the point-in-time snapshot the simulator consumes. Where the
// numbers come from is the provider's concern; the simulator only needs the
// base volatility and a reference price.
type MarketData struct {
	BaseVolatility float64   `json:"base_volatility"`
	BasePrice      float64   `json:"base_price"`
	Source         string    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
}
