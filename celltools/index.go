package celltools

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/airbusgeo/godal"
	"github.com/golang/geo/s2"
	"github.com/sirupsen/logrus"

	"ndvi-tools/ndvi"
)

const EarthRadius = 6371000

var ErrInvalidLevel = errors.New("invalid S2 level")

// Georef places the plot grid on the ground. The origin is the north-west
// corner of plot (0,0); rows run south and columns run east.
type Georef struct {
	OriginLat float64
	OriginLng float64
	PlotSizeM float64
}

func DefaultGeoref() Georef {
	return Georef{OriginLat: -33.90, OriginLng: 18.85, PlotSizeM: 10}
}

type ConfigOpts struct {
	S2Lvl   int
	AggFunc AggFunc
}

type S2CellData struct {
	Cell       s2.CellID
	Data       float64
	Count      int
	AreaM2     float64
	GeomString string
}

func (c S2CellData) String() string {
	return fmt.Sprintf("%v;%v;%d;%s", int64(c.Cell), c.Data, c.Count, c.GeomString)
}

// Resolution returns the plot size in degrees. yRes is negative, as in a
// north-up GDAL geotransform.
func (g Georef) Resolution() (float64, float64) {
	metresPerDegree := (math.Pi / 180) * EarthRadius
	yRes := -g.PlotSizeM / metresPerDegree
	xRes := g.PlotSizeM / (metresPerDegree * math.Cos(g.OriginLat*math.Pi/180))
	return xRes, yRes
}

func (g Georef) GeoTransform() [6]float64 {
	xRes, yRes := g.Resolution()
	return [6]float64{g.OriginLng, xRes, 0, g.OriginLat, 0, yRes}
}

func (g Georef) PlotCentroid(row, col int) s2.LatLng {
	xRes, yRes := g.Resolution()
	lat := g.OriginLat + (float64(row)+0.5)*yRes
	lng := g.OriginLng + (float64(col)+0.5)*xRes
	return s2.LatLngFromDegrees(lat, lng)
}

func (g Georef) validate() error {
	if g.PlotSizeM <= 0 {
		return fmt.Errorf("plot size must be positive, got %v", g.PlotSizeM)
	}
	if math.Abs(g.OriginLat) >= 90 || math.Abs(g.OriginLng) > 180 {
		return fmt.Errorf("origin (%v, %v) out of range", g.OriginLat, g.OriginLng)
	}
	return nil
}

// IndexPlots aggregates finite plot NDVI values into the S2 cells that
// contain each plot centroid. Results are ordered by cell id.
func IndexPlots(results []ndvi.Result, georef Georef, opts ConfigOpts) ([]S2CellData, error) {
	if opts.S2Lvl < 0 || opts.S2Lvl > s2.MaxLevel {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, opts.S2Lvl)
	}
	if err := georef.validate(); err != nil {
		return nil, err
	}
	if opts.AggFunc == nil {
		opts.AggFunc = Mean
	}
	godal.RegisterAll()

	resMap := groupByCell(results, georef, opts.S2Lvl)
	cells := make([]s2.CellID, 0, len(resMap))
	for cell := range resMap {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

	aggResults := make([]S2CellData, 0, len(cells))
	for _, cellID := range cells {
		cellData, err := aggToS2Cell(cellID, resMap[cellID], opts.AggFunc)
		if err != nil {
			logrus.Error(err)
			return nil, err
		}
		aggResults = append(aggResults, cellData)
	}
	logrus.WithFields(logrus.Fields{
		"plots": len(results),
		"cells": len(aggResults),
		"level": opts.S2Lvl,
	}).Info("Indexed plots to S2 cells")
	return aggResults, nil
}

func groupByCell(results []ndvi.Result, georef Georef, level int) map[s2.CellID][]float64 {
	logrus.Debug("Entered groupByCell")
	outMap := make(map[s2.CellID][]float64)
	for _, res := range results {
		if math.IsNaN(res.Value) {
			continue
		}
		latLng := georef.PlotCentroid(res.Row, res.Col)
		cell := s2.CellIDFromLatLng(latLng).Parent(level)
		outMap[cell] = append(outMap[cell], res.Value)
	}
	logrus.Debug("Exited groupByCell")
	return outMap
}

func aggToS2Cell(cellID s2.CellID, values []float64, aggFunc AggFunc) (S2CellData, error) {
	cell := s2.CellFromCellID(cellID)
	geomString := cellToWKT(cell)
	area, err := cellAreaM2(cell, geomString)
	if err != nil {
		return S2CellData{}, err
	}
	return S2CellData{
		Cell:       cellID,
		Data:       aggFunc(values...),
		Count:      len(values),
		AreaM2:     area,
		GeomString: geomString,
	}, nil
}
