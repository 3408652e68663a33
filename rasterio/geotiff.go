package rasterio

import (
	"errors"
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"

	"ndvi-tools/celltools"
)

const NoData = -9999

// WriteNDVIGeoTIFF writes grid as a single Float32 band in EPSG:4326. NaN
// cells are written as NoData.
func WriteNDVIGeoTIFF(path string, grid [][]float64, georef celltools.Georef) (err error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return fmt.Errorf("cannot write empty grid to %s", path)
	}
	godal.RegisterAll()
	rows, cols := len(grid), len(grid[0])

	buf := make([]float32, rows*cols)
	for r, line := range grid {
		if len(line) != cols {
			return fmt.Errorf("ragged grid: row %d has %d columns, want %d", r, len(line), cols)
		}
		for c, value := range line {
			if math.IsNaN(value) {
				buf[r*cols+c] = NoData
				continue
			}
			buf[r*cols+c] = float32(value)
		}
	}

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, cols, rows,
		godal.CreationOption("TILED=YES", "COMPRESS=DEFLATE"))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ds.Close())
	}()

	if err := ds.SetGeoTransform(georef.GeoTransform()); err != nil {
		return err
	}
	srs, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return err
	}
	defer srs.Close()
	if err := ds.SetSpatialRef(srs); err != nil {
		return err
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(NoData); err != nil {
		return err
	}
	if err := band.Write(0, 0, buf, cols, rows); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"path": path, "rows": rows, "cols": cols}).Info("Wrote NDVI GeoTIFF")
	return nil
}
