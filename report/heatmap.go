package report

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	marginLeft   = 48
	marginTop    = 32
	marginBottom = 40
	barGap       = 16
	barWidth     = 16
	barLabels    = 56
	marginRight  = barGap + barWidth + barLabels
)

type HeatmapOptions struct {
	// Scale is the edge length of one plot in pixels.
	Scale int
	VMin  float64
	VMax  float64
	Title string
	Ramp  Ramp
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Scale: 4,
		VMin:  0.0,
		VMax:  0.9,
		Title: "Synthetic Field NDVI (heatmap)",
		Ramp:  YlGn,
	}
}

// PlotBounds is where the field itself is drawn on the canvas.
func PlotBounds(rows, cols int, opts HeatmapOptions) image.Rectangle {
	return image.Rect(marginLeft, marginTop, marginLeft+cols*opts.Scale, marginTop+rows*opts.Scale)
}

// RenderHeatmap draws grid with row 0 at the bottom, a colour bar and captions.
func RenderHeatmap(grid [][]float64, opts HeatmapOptions) (*image.RGBA, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, errors.New("cannot render an empty grid")
	}
	if opts.Scale < 1 {
		return nil, fmt.Errorf("heatmap scale must be at least 1, got %d", opts.Scale)
	}
	if opts.VMax <= opts.VMin {
		return nil, fmt.Errorf("heatmap range [%v, %v] is empty", opts.VMin, opts.VMax)
	}
	if len(opts.Ramp) < 2 {
		opts.Ramp = YlGn
	}
	rows, cols := len(grid), len(grid[0])

	field := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for r, line := range grid {
		for c := 0; c < cols && c < len(line); c++ {
			field.SetRGBA(c, rows-1-r, opts.Ramp.ValueColor(line[c], opts.VMin, opts.VMax))
		}
	}

	plot := PlotBounds(rows, cols, opts)
	canvas := image.NewRGBA(image.Rect(0, 0, plot.Max.X+marginRight, plot.Max.Y+marginBottom))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.NearestNeighbor.Scale(canvas, plot, field, field.Bounds(), draw.Src, nil)

	drawColorBar(canvas, plot, opts)
	drawCaptions(canvas, plot, rows, cols, opts.Title)
	return canvas, nil
}

func drawColorBar(canvas *image.RGBA, plot image.Rectangle, opts HeatmapOptions) {
	bar := image.Rect(plot.Max.X+barGap, plot.Min.Y, plot.Max.X+barGap+barWidth, plot.Max.Y)
	height := bar.Dy()
	for y := bar.Min.Y; y < bar.Max.Y; y++ {
		t := 1 - float64(y-bar.Min.Y)/float64(max(1, height-1))
		c := opts.Ramp.At(t)
		for x := bar.Min.X; x < bar.Max.X; x++ {
			canvas.SetRGBA(x, y, c)
		}
	}

	labelX := bar.Max.X + 4
	mid := (opts.VMin + opts.VMax) / 2
	drawText(canvas, fmt.Sprintf("%.2f", opts.VMax), labelX, bar.Min.Y+10)
	drawText(canvas, fmt.Sprintf("%.2f", mid), labelX, bar.Min.Y+height/2+4)
	drawText(canvas, fmt.Sprintf("%.2f", opts.VMin), labelX, bar.Max.Y)
	drawText(canvas, "NDVI", bar.Min.X, bar.Min.Y-6)
}

func drawCaptions(canvas *image.RGBA, plot image.Rectangle, rows, cols int, title string) {
	titleX := plot.Min.X + (plot.Dx()-textWidth(title))/2
	drawText(canvas, title, max(2, titleX), 14)

	drawText(canvas, "0", plot.Min.X, plot.Max.Y+14)
	last := fmt.Sprint(cols - 1)
	drawText(canvas, last, plot.Max.X-textWidth(last), plot.Max.Y+14)
	caption := "Column index (0-based)"
	drawText(canvas, caption, plot.Min.X+(plot.Dx()-textWidth(caption))/2, plot.Max.Y+30)

	drawText(canvas, "0", plot.Min.X-4-textWidth("0"), plot.Max.Y)
	top := fmt.Sprint(rows - 1)
	drawText(canvas, top, plot.Min.X-4-textWidth(top), plot.Min.Y+10)
	rowCaption := "Row index (0-based)"
	drawTextVertical(canvas, rowCaption, 4, plot.Min.Y+(plot.Dy()+textWidth(rowCaption))/2)
}

// drawTextVertical writes s rotated a quarter turn anticlockwise, reading
// upwards from (x, bottom).
func drawTextVertical(dst *image.RGBA, s string, x, bottom int) {
	face := basicfont.Face7x13
	line := image.NewAlpha(image.Rect(0, 0, textWidth(s), face.Height))
	d := &font.Drawer{
		Dst:  line,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	bounds := line.Bounds()
	for ty := bounds.Min.Y; ty < bounds.Max.Y; ty++ {
		for tx := bounds.Min.X; tx < bounds.Max.X; tx++ {
			if line.AlphaAt(tx, ty).A == 0 {
				continue
			}
			dst.SetRGBA(x+ty, bottom-tx, color.RGBA{A: 0xff})
		}
	}
}

// drawText writes s with its baseline at y.
func drawText(dst draw.Image, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func SaveHeatmap(path string, grid [][]float64, opts HeatmapOptions) (err error) {
	img, err := RenderHeatmap(grid, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"path":   path,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Info("Wrote NDVI heatmap")
	return nil
}
