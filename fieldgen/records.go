package fieldgen

import "fmt"

// SpectralRecord holds surface reflectance for one plot. Row and Col are 0-based.
type SpectralRecord struct {
	PlotID     string
	Row        int
	Col        int
	Blue480    float64
	Green560   float64
	Red665     float64
	RedEdge705 float64
	RedEdge740 float64
	Nir842     float64
	Nir2865    float64
	Swir1610   float64
	Swir2190   float64
}

// Columns is the flat export header, in file order.
var Columns = []string{
	"plot_id",
	"row",
	"col",
	"blue_480",
	"green_560",
	"red_665",
	"red_edge_705",
	"red_edge_740",
	"nir_842",
	"nir2_865",
	"swir_1610",
	"swir_2190",
}

// Reflectances returns the band values in Columns order (after plot_id, row, col).
func (r SpectralRecord) Reflectances() []float64 {
	return []float64{
		r.Blue480,
		r.Green560,
		r.Red665,
		r.RedEdge705,
		r.RedEdge740,
		r.Nir842,
		r.Nir2865,
		r.Swir1610,
		r.Swir2190,
	}
}

// SetReflectance assigns a band value by its column name.
func (r *SpectralRecord) SetReflectance(column string, value float64) error {
	switch column {
	case "blue_480":
		r.Blue480 = value
	case "green_560":
		r.Green560 = value
	case "red_665":
		r.Red665 = value
	case "red_edge_705":
		r.RedEdge705 = value
	case "red_edge_740":
		r.RedEdge740 = value
	case "nir_842":
		r.Nir842 = value
	case "nir2_865":
		r.Nir2865 = value
	case "swir_1610":
		r.Swir1610 = value
	case "swir_2190":
		r.Swir2190 = value
	default:
		return fmt.Errorf("unknown band column %q", column)
	}
	return nil
}

// PlotID formats the identifier for a 0-based grid position.
func PlotID(row, col int) string {
	return fmt.Sprintf("R%03dC%03d", row+1, col+1)
}
