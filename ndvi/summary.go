package ndvi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the field. Statistics cover finite values only.
type Summary struct {
	Plots  int
	Valid  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
	Median float64
}

func Summarize(results []Result) Summary {
	valid := make([]float64, 0, len(results))
	for _, res := range results {
		if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
			continue
		}
		valid = append(valid, res.Value)
	}

	summary := Summary{Plots: len(results), Valid: len(valid)}
	if len(valid) == 0 {
		nan := math.NaN()
		summary.Mean, summary.Min, summary.Max = nan, nan, nan
		summary.StdDev, summary.Median = nan, nan
		return summary
	}

	summary.Mean = stat.Mean(valid, nil)
	summary.Min = floats.Min(valid)
	summary.Max = floats.Max(valid)
	if len(valid) > 1 {
		summary.StdDev = stat.StdDev(valid, nil)
	}
	sort.Float64s(valid)
	summary.Median = median(valid)
	return summary
}

// median expects sorted values. Even counts average the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
