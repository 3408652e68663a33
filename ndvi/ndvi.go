package ndvi

import (
	"math"

	"ndvi-tools/fieldgen"
)

// DefaultStressThreshold is the NDVI below which a plot is reported as stressed.
const DefaultStressThreshold = 0.30

type Result struct {
	Row    int
	Col    int
	PlotID string
	Value  float64
}

// Compute returns the normalized difference of nir and red, or NaN when
// nir+red is zero.
func Compute(red, nir float64) float64 {
	denominator := nir + red
	if denominator == 0 {
		return math.NaN()
	}
	return (nir - red) / denominator
}

// ComputeAll evaluates NDVI for every record, preserving input order.
func ComputeAll(records []fieldgen.SpectralRecord) []Result {
	results := make([]Result, len(records))
	for i, rec := range records {
		results[i] = Result{
			Row:    rec.Row,
			Col:    rec.Col,
			PlotID: rec.PlotID,
			Value:  Compute(rec.Red665, rec.Nir842),
		}
	}
	return results
}

// Stressed returns the results whose value lies strictly below threshold.
func Stressed(results []Result, threshold float64) []Result {
	var stressed []Result
	for _, res := range results {
		if IsStressed(res.Value, threshold) {
			stressed = append(stressed, res)
		}
	}
	return stressed
}

// IsStressed reports whether value lies strictly below threshold. NaN is never stressed.
func IsStressed(value, threshold float64) bool {
	return value < threshold
}

// Dimensions infers the grid size from the largest row and column seen.
func Dimensions(records []fieldgen.SpectralRecord) (int, int) {
	var rows, cols int
	for _, rec := range records {
		rows = max(rows, rec.Row+1)
		cols = max(cols, rec.Col+1)
	}
	return rows, cols
}

// Grid lays results out densely, row-major. Cells without a result are NaN.
func Grid(results []Result, rows, cols int) [][]float64 {
	grid := make([][]float64, rows)
	for r := range grid {
		grid[r] = make([]float64, cols)
		for c := range grid[r] {
			grid[r][c] = math.NaN()
		}
	}
	for _, res := range results {
		if res.Row < 0 || res.Row >= rows || res.Col < 0 || res.Col >= cols {
			continue
		}
		grid[res.Row][res.Col] = res.Value
	}
	return grid
}
