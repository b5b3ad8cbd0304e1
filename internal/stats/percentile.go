package stats

import (
	"math"
	"sort"
)

// Percentile calculates the p-th percentile (0-100)
// Uses linear interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Quantile(values, clampPercent(p)/100.0)
}

// Percentiles calculates multiple interpolated percentiles at once
func Percentiles(values []float64, ps []float64) []float64 {
	if len(values) == 0 {
		return make([]float64, len(ps))
	}

	// Sort once for efficiency
	sorted := sortedCopy(values)

	results := make([]float64, len(ps))
	for i, p := range ps {
		results[i] = interpolate(sorted, clampPercent(p)/100.0)
	}

	return results
}

// DiscretePercentile returns the p-th percentile (0-100) as an observed value:
// the smallest value whose cumulative share of the sample is at least p.
// No interpolation is performed.
func DiscretePercentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := sortedCopy(values)
	n := len(sorted)

	rank := int(math.Ceil(clampPercent(p) * float64(n) / 100.0))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}

	return sorted[rank-1]
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
