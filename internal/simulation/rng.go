// Package simulation implements the Monte Carlo yield-distribution engine.
package simulation

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source provides the uniform randomness consumed by the simulator. Values
// must lie in [0, 1). *math/rand.Rand satisfies the interface; tests inject
// scripted sequences for deterministic replay.
type Source interface {
	Float64() float64
}

// NewSource creates a deterministic source from a seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSource creates a time-seeded source that is safe for use by
// concurrent forecasts.
func NewTimeSource() Source {
	return &lockedSource{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// lockedSource serializes access to an underlying source so one Forecaster
// can be shared across goroutines.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// normal draws one standard-normal deviate via the Box-Muller transform.
// Each call consumes a fresh pair of uniforms and keeps only the cosine
// branch; the sine branch is discarded rather than cached.
func normal(src Source) float64 {
	u1 := src.Float64()
	for u1 == 0 {
		u1 = src.Float64()
	}
	u2 := src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// uniformSigned draws a uniform value in (-1, 1).
func uniformSigned(src Source) float64 {
	return src.Float64()*2 - 1
}

// uniformRange draws a uniform value in [lo, hi).
func uniformRange(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
