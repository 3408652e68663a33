package fieldgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

const cloudProbability = 0.02

type Options struct {
	Rows int
	Cols int
	Seed uint64
}

func DefaultOptions() Options {
	return Options{Rows: 140, Cols: 140, Seed: 1337}
}

// stressPocket is a Gaussian depression in vigour centred on a grid position.
type stressPocket struct {
	row    float64
	col    float64
	sigma2 float64
}

type noise struct {
	src rand.Source
}

func (n noise) gauss(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: n.src}.Rand()
}

func (n noise) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: n.src}.Rand()
}

func clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// Generate builds a reproducible row-major grid of multispectral reflectance
// that approximates field data: two stress pockets, a fertility gradient,
// sensor striping and occasional thin cloud.
func Generate(opts Options) ([]SpectralRecord, error) {
	if opts.Rows < 1 || opts.Cols < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, opts.Rows, opts.Cols)
	}
	logrus.WithFields(logrus.Fields{
		"rows": opts.Rows,
		"cols": opts.Cols,
		"seed": opts.Seed,
	}).Debug("Generating synthetic spectral grid")

	rows, cols := float64(opts.Rows), float64(opts.Cols)
	rng := noise{src: rand.NewPCG(opts.Seed, opts.Seed)}

	pockets := []stressPocket{
		{rows * 0.65, cols * 0.68, math.Pow(rows*0.20, 2)},
		{rows * 0.30, cols * 0.25, math.Pow(rows*0.18, 2)},
	}

	colBias := make([]float64, opts.Cols)
	for c := range colBias {
		colBias[c] = rng.gauss(1.0, 0.01)
	}
	rowGradient := make([]float64, opts.Rows)
	for r := range rowGradient {
		rowGradient[r] = 1.0 + 0.04*math.Sin(float64(r)/11.0)
	}

	records := make([]SpectralRecord, 0, opts.Rows*opts.Cols)
	var clouded int
	for r := 0; r < opts.Rows; r++ {
		for c := 0; c < opts.Cols; c++ {
			var stress float64
			for _, p := range pockets {
				dist2 := math.Pow(float64(r)-p.row, 2) + math.Pow(float64(c)-p.col, 2)
				stress += math.Exp(-dist2 / (2 * p.sigma2))
			}
			stress = clamp(stress, 0.0, 1.6)

			fertility := 0.15*(1-float64(r)/rows) + 0.05*(float64(c)/cols)
			illumination := rng.uniform(0.93, 1.07) * rowGradient[r] * colBias[c]

			targetNDVI := 0.70 + fertility - 0.40*stress + rng.gauss(0.0, 0.02)
			targetNDVI = clamp(targetNDVI, 0.05, 0.92)

			total := illumination * rng.uniform(0.42, 0.80)
			nir := (targetNDVI + 1.0) * total / 2.0
			red := total - nir

			nir += rng.gauss(0.0, 0.006)
			red += rng.gauss(0.0, 0.006)
			nir = clamp(nir, 0.01, 0.95)
			red = clamp(red, 0.01, 0.95)

			rec := SpectralRecord{
				PlotID: PlotID(r, c),
				Row:    r,
				Col:    c,
				Red665: red,
				Nir842: nir,
			}
			rec.Blue480 = clamp(0.04+0.07*(1.1-targetNDVI)+rng.gauss(0.0, 0.006), 0.02, 0.22)
			rec.Green560 = clamp(0.20+0.12*(0.9-stress)+rng.gauss(0.0, 0.01), 0.12, 0.42)
			rec.RedEdge705 = clamp(0.18+0.40*targetNDVI+rng.gauss(0.0, 0.008), 0.10, 0.70)
			rec.RedEdge740 = clamp(rec.RedEdge705+0.05*(targetNDVI-0.5)+rng.gauss(0.0, 0.006), 0.10, 0.75)
			rec.Nir2865 = clamp(nir+rng.gauss(0.0, 0.004)+0.02*(1.0-stress), 0.05, 0.95)
			rec.Swir1610 = clamp(0.22+0.28*stress+rng.gauss(0.0, 0.01), 0.10, 0.70)
			rec.Swir2190 = clamp(rec.Swir1610+0.05*stress+rng.gauss(0.0, 0.01), 0.10, 0.75)

			if rng.uniform(0, 1) < cloudProbability {
				applyThinCloud(&rec, rng.uniform(1.05, 1.12), rng.uniform(0.90, 0.96))
				clouded++
			}
			records = append(records, rec)
		}
	}
	logrus.WithField("clouded", clouded).Debug("Finished synthetic spectral grid")
	return records, nil
}

// applyThinCloud brightens the visible bands and mutes NIR.
func applyThinCloud(rec *SpectralRecord, factorVis, factorNir float64) {
	rec.Blue480 *= factorVis
	rec.Green560 *= factorVis
	rec.Red665 *= factorVis
	rec.RedEdge705 *= factorVis
	rec.RedEdge740 *= factorVis
	rec.Nir842 *= factorNir
	rec.Nir2865 *= factorNir
	rec.Swir1610 *= factorVis * 0.9
	rec.Swir2190 *= factorVis * 0.9
}
