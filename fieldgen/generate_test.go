package fieldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsReproducible(t *testing.T) {
	opts := Options{Rows: 12, Cols: 9, Seed: 42}
	first, err := Generate(opts)
	require.NoError(t, err)
	second, err := Generate(opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	opts.Seed = 43
	other, err := Generate(opts)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGenerateLayout(t *testing.T) {
	records, err := Generate(Options{Rows: 3, Cols: 4, Seed: 7})
	require.NoError(t, err)
	require.Len(t, records, 12)

	assert.Equal(t, "R001C001", records[0].PlotID)
	assert.Equal(t, "R001C004", records[3].PlotID)
	assert.Equal(t, "R002C001", records[4].PlotID)
	assert.Equal(t, "R003C004", records[11].PlotID)
	for i, rec := range records {
		assert.Equal(t, i/4, rec.Row)
		assert.Equal(t, i%4, rec.Col)
	}
}

func TestGenerateReflectanceRanges(t *testing.T) {
	records, err := Generate(Options{Rows: 40, Cols: 40, Seed: 2027})
	require.NoError(t, err)

	// Thin cloud may scale a clamped value by up to 1.12.
	const maxCloudGain = 1.12
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.Red665, 0.01)
		assert.LessOrEqual(t, rec.Red665, 0.95*maxCloudGain)
		assert.GreaterOrEqual(t, rec.Nir842, 0.01*0.90)
		assert.LessOrEqual(t, rec.Nir842, 0.95)
		for _, v := range rec.Reflectances() {
			assert.Greater(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestGenerateStressPocketsLowerVigour(t *testing.T) {
	records, err := Generate(Options{Rows: 100, Cols: 100, Seed: 5})
	require.NoError(t, err)

	ratio := func(rec SpectralRecord) float64 {
		return (rec.Nir842 - rec.Red665) / (rec.Nir842 + rec.Red665)
	}
	// Centre of the first pocket against the unstressed north-east corner.
	pocket := ratio(records[65*100+68])
	healthy := ratio(records[2*100+97])
	assert.Less(t, pocket, healthy)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, Options{Rows: 140, Cols: 140, Seed: 1337}, opts)

	records, err := Generate(opts)
	require.NoError(t, err)
	assert.Len(t, records, 140*140)
	assert.Equal(t, "R140C140", records[len(records)-1].PlotID)
}

func TestGenerateInvalidDimensions(t *testing.T) {
	for _, opts := range []Options{{Rows: 0, Cols: 5}, {Rows: 5, Cols: -1}} {
		_, err := Generate(opts)
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
}

func TestSetReflectance(t *testing.T) {
	var rec SpectralRecord
	require.NoError(t, rec.SetReflectance("nir2_865", 0.5))
	assert.Equal(t, 0.5, rec.Nir2865)
	assert.Error(t, rec.SetReflectance("ndvi", 0.1))
}
