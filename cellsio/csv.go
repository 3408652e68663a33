package cellsio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"ndvi-tools/celltools"
	"ndvi-tools/fieldgen"
	"ndvi-tools/ndvi"
)

var ErrMissingColumn = errors.New("missing column")

var resultColumns = []string{"plot_id", "row", "col", "ndvi", "stressed"}

// create opens path for writing, creating parent directories as needed.
func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// SaveSpectralCSV writes records to path, creating parent directories as needed.
func SaveSpectralCSV(records []fieldgen.SpectralRecord, path string) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := csv.NewWriter(f)
	if err := w.Write(fieldgen.Columns); err != nil {
		return err
	}
	row := make([]string, len(fieldgen.Columns))
	for i, rec := range records {
		if i%10000 == 0 {
			logrus.Debugf("Writing record %d", i)
		}
		row = row[:0]
		row = append(row, rec.PlotID, strconv.Itoa(rec.Row), strconv.Itoa(rec.Col))
		for _, v := range rec.Reflectances() {
			row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// LoadSpectralCSV reads records by header name. A header lacking any
// expected column yields ErrMissingColumn.
func LoadSpectralCSV(path string) ([]fieldgen.SpectralRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w: empty file", path, ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range fieldgen.Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%s: %w %q", path, ErrMissingColumn, name)
		}
	}

	var records []fieldgen.SpectralRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseSpectralRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	logrus.WithFields(logrus.Fields{"path": path, "records": len(records)}).Info("Loaded spectral records")
	return records, nil
}

func parseSpectralRow(row []string, index map[string]int) (fieldgen.SpectralRecord, error) {
	rec := fieldgen.SpectralRecord{PlotID: row[index["plot_id"]]}
	var err error
	if rec.Row, err = strconv.Atoi(row[index["row"]]); err != nil {
		return rec, fmt.Errorf("column row: %w", err)
	}
	if rec.Col, err = strconv.Atoi(row[index["col"]]); err != nil {
		return rec, fmt.Errorf("column col: %w", err)
	}
	for _, name := range fieldgen.Columns[3:] {
		value, err := strconv.ParseFloat(row[index[name]], 64)
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", name, err)
		}
		if err := rec.SetReflectance(name, value); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// WriteResultsCSV exports per-plot NDVI with its stress flag.
func WriteResultsCSV(results []ndvi.Result, threshold float64, path string) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := csv.NewWriter(f)
	if err := w.Write(resultColumns); err != nil {
		return err
	}
	for _, res := range results {
		record := []string{
			res.PlotID,
			strconv.Itoa(res.Row),
			strconv.Itoa(res.Col),
			strconv.FormatFloat(res.Value, 'f', 4, 64),
			strconv.FormatBool(ndvi.IsStressed(res.Value, threshold)),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"path": path, "plots": len(results)}).Info("Wrote NDVI results")
	return f.Sync()
}

// WriteCellsCSV writes one S2 cell per line. Fields are separated by ';'
// because the WKT geometry contains commas.
func WriteCellsCSV(cells []celltools.S2CellData, path string) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := f.WriteString("s2_id;value;plots;geom\n"); err != nil {
		return err
	}
	for i, cell := range cells {
		if i%10000 == 0 {
			logrus.Infof("Writing cell %d", i)
		}
		if _, err := f.WriteString(cell.String() + "\n"); err != nil {
			return err
		}
	}
	return f.Sync()
}
