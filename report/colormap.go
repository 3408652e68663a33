package report

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp is a piecewise colour scale between evenly spaced anchors,
// interpolated linearly in sRGB as matplotlib does.
type Ramp []colorful.Color

// YlGn is the 9-class ColorBrewer yellow-green sequential scale.
var YlGn = mustRamp(
	"#ffffe5", "#f7fcb9", "#d9f0a3", "#addd8e", "#78c679",
	"#41ab5d", "#238443", "#006837", "#004529",
)

var nanColor = color.RGBA{0xd9, 0xd9, 0xd9, 0xff}

func mustRamp(hexes ...string) Ramp {
	ramp := make(Ramp, len(hexes))
	for i, hex := range hexes {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(err)
		}
		ramp[i] = c
	}
	return ramp
}

// At returns the colour at t, clamped to [0, 1].
func (r Ramp) At(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(r)-1)
	i := int(pos)
	if i >= len(r)-1 {
		return toRGBA(r[len(r)-1])
	}
	frac := pos - float64(i)
	if frac == 0 {
		return toRGBA(r[i])
	}
	return toRGBA(r[i].BlendRgb(r[i+1], frac).Clamped())
}

// ValueColor maps value within [vmin, vmax] onto the ramp. NaN is grey.
func (r Ramp) ValueColor(value, vmin, vmax float64) color.RGBA {
	if math.IsNaN(value) {
		return nanColor
	}
	return r.At((value - vmin) / (vmax - vmin))
}

func toRGBA(c colorful.Color) color.RGBA {
	red, green, blue := c.RGB255()
	return color.RGBA{red, green, blue, 0xff}
}
