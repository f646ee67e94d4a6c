package simulation

import "math"

// sum calculates the sum of a slice of float64.
func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// mean calculates the arithmetic mean of a slice of float64.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// stdDevPop calculates the population standard deviation (divide by N).
func stdDevPop(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// minMax returns the lowest and highest values in a slice.
func minMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// clampIndex clamps an index into [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// percentileBounds returns the empirical confidence bounds over an
// ascending-sorted sample set. Indices follow the floor convention:
// lower = floor(N*(1-CI)/2), upper = floor(N*(1-(1-CI)/2)) - 1, both clamped
// into range so small N or CI near 1 degrade instead of panicking.
func percentileBounds(sorted []float64, confidence float64) (lower, upper float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	alpha := 1 - confidence
	lo := clampIndex(int(math.Floor(float64(n)*alpha/2)), n)
	hi := clampIndex(int(math.Floor(float64(n)*(1-alpha/2)))-1, n)
	return sorted[lo], sorted[hi]
}

// successProbability is the fraction of samples with strictly positive yield.
func successProbability(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var positive int
	for _, v := range values {
		if v > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(values))
}

// clamp01 clamps a value into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
