package cellsio

import (
	"errors"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"

	"ndvi-tools/celltools"
	"ndvi-tools/ndvi"
)

type PlotRow struct {
	PlotID   string  `parquet:"plot_id"`
	Row      int32   `parquet:"row"`
	Col      int32   `parquet:"col"`
	NDVI     float64 `parquet:"ndvi"`
	Stressed bool    `parquet:"stressed"`
}

type CellRow struct {
	S2id   int64   `parquet:"s2_id"`
	Token  string  `parquet:"token"`
	Value  float64 `parquet:"value"`
	Plots  int32   `parquet:"plots"`
	AreaM2 float64 `parquet:"area_m2"`
	Geom   string  `parquet:"geom"`
}

func WriteResultsParquet(results []ndvi.Result, threshold float64, path string) error {
	rows := make([]PlotRow, len(results))
	for i, res := range results {
		rows[i] = PlotRow{
			PlotID:   res.PlotID,
			Row:      int32(res.Row),
			Col:      int32(res.Col),
			NDVI:     res.Value,
			Stressed: ndvi.IsStressed(res.Value, threshold),
		}
	}
	return writeParquet(rows, path)
}

func WriteCellsParquet(cells []celltools.S2CellData, path string) error {
	rows := make([]CellRow, len(cells))
	for i, cell := range cells {
		rows[i] = CellRow{
			S2id:   int64(cell.Cell),
			Token:  cell.Cell.ToToken(),
			Value:  cell.Data,
			Plots:  int32(cell.Count),
			AreaM2: cell.AreaM2,
			Geom:   cell.GeomString,
		}
	}
	return writeParquet(rows, path)
}

func writeParquet[T any](rows []T, path string) (err error) {
	output, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, output.Close())
	}()

	writer := parquet.NewGenericWriter[T](output, parquet.Compression(&parquet.Snappy))
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"path": path, "rows": len(rows)}).Info("Wrote parquet file")
	return nil
}
