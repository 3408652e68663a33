package ndvi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndvi-tools/fieldgen"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		red  float64
		nir  float64
		want float64
	}{
		{"dense canopy", 0.05, 0.45, 0.8},
		{"bare soil", 0.20, 0.25, 1.0 / 9.0},
		{"water", 0.30, 0.10, -0.5},
		{"equal bands", 0.2, 0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Compute(tt.red, tt.nir), 1e-12)
		})
	}
}

func TestComputeZeroDenominator(t *testing.T) {
	assert.True(t, math.IsNaN(Compute(0, 0)))
	assert.True(t, math.IsNaN(Compute(-0.1, 0.1)))
}

func TestComputeAll(t *testing.T) {
	records := []fieldgen.SpectralRecord{
		{PlotID: "R001C001", Row: 0, Col: 0, Red665: 0.1, Nir842: 0.3},
		{PlotID: "R001C002", Row: 0, Col: 1, Red665: 0, Nir842: 0},
	}
	results := ComputeAll(records)
	require.Len(t, results, 2)
	assert.Equal(t, "R001C001", results[0].PlotID)
	assert.InDelta(t, 0.5, results[0].Value, 1e-12)
	assert.Equal(t, 1, results[1].Col)
	assert.True(t, math.IsNaN(results[1].Value))
}

func TestStressed(t *testing.T) {
	results := []Result{
		{PlotID: "a", Value: 0.29},
		{PlotID: "b", Value: DefaultStressThreshold},
		{PlotID: "c", Value: math.NaN()},
		{PlotID: "d", Value: -0.2},
		{PlotID: "e", Value: 0.75},
	}
	stressed := Stressed(results, DefaultStressThreshold)
	var ids []string
	for _, res := range stressed {
		ids = append(ids, res.PlotID)
	}
	assert.Equal(t, []string{"a", "d"}, ids)
	assert.Empty(t, Stressed(results, -1))
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Value: 0.2},
		{Value: math.NaN()},
		{Value: 0.6},
		{Value: 0.4},
	}
	summary := Summarize(results)
	assert.Equal(t, 4, summary.Plots)
	assert.Equal(t, 3, summary.Valid)
	assert.InDelta(t, 0.4, summary.Mean, 1e-12)
	assert.InDelta(t, 0.2, summary.Min, 1e-12)
	assert.InDelta(t, 0.6, summary.Max, 1e-12)
	assert.InDelta(t, 0.4, summary.Median, 1e-12)
	assert.InDelta(t, 0.2, summary.StdDev, 1e-12)
}

func TestSummarizeEvenCountMedian(t *testing.T) {
	results := []Result{{Value: 0.8}, {Value: 0.2}, {Value: math.NaN()}, {Value: 0.6}, {Value: 0.4}}
	summary := Summarize(results)
	assert.Equal(t, 4, summary.Valid)
	assert.InDelta(t, 0.5, summary.Median, 1e-12)

	single := Summarize([]Result{{Value: 0.35}})
	assert.InDelta(t, 0.35, single.Median, 1e-12)
	assert.Equal(t, 0.0, single.StdDev)
}

func TestIsStressed(t *testing.T) {
	assert.True(t, IsStressed(0.2999, DefaultStressThreshold))
	assert.False(t, IsStressed(DefaultStressThreshold, DefaultStressThreshold))
	assert.False(t, IsStressed(math.NaN(), DefaultStressThreshold))
}

func TestSummarizeNoValidValues(t *testing.T) {
	for _, results := range [][]Result{nil, {{Value: math.NaN()}}} {
		summary := Summarize(results)
		assert.Equal(t, 0, summary.Valid)
		assert.True(t, math.IsNaN(summary.Mean))
		assert.True(t, math.IsNaN(summary.Min))
		assert.True(t, math.IsNaN(summary.Max))
	}
}

func TestDimensionsAndGrid(t *testing.T) {
	records, err := fieldgen.Generate(fieldgen.Options{Rows: 3, Cols: 5, Seed: 1})
	require.NoError(t, err)
	rows, cols := Dimensions(records)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 5, cols)

	results := ComputeAll(records[1:])
	results = append(results, Result{Row: 9, Col: 0, Value: 0.5})
	grid := Grid(results, rows, cols)
	require.Len(t, grid, 3)
	require.Len(t, grid[0], 5)
	assert.True(t, math.IsNaN(grid[0][0]))
	assert.Equal(t, results[0].Value, grid[0][1])
	assert.Equal(t, results[len(results)-2].Value, grid[2][4])
}

func TestSyntheticFieldIsMostlyVegetated(t *testing.T) {
	records, err := fieldgen.Generate(fieldgen.Options{Rows: 60, Cols: 60, Seed: 2027})
	require.NoError(t, err)
	summary := Summarize(ComputeAll(records))
	assert.Equal(t, 3600, summary.Valid)
	assert.Greater(t, summary.Mean, 0.4)
	assert.Less(t, summary.Mean, 0.9)
	assert.Less(t, summary.Min, summary.Max)
}
