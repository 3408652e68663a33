package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndvi-tools/cellsio"
	"ndvi-tools/celltools"
	"ndvi-tools/fieldgen"
	"ndvi-tools/ndvi"
	"ndvi-tools/rasterio"
	"ndvi-tools/report"
)

type runConfig struct {
	DataPath  string
	Grid      fieldgen.Options
	Preview   int
	Threshold float64
	Heatmap   string
	Scale     int
	Export    string
	Parquet   string
	GeoTIFF   string
	Georef    celltools.Georef
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute NDVI per plot, report stressed plots and write a heatmap",
	Long: `Load the field dataset (generating it if it is missing or out of
	date), compute NDVI = (nir - red) / (nir + red) for every plot, print a
	preview and field summary, and write the exports.

	Options:
		--data:      Spectral CSV to read.
		--preview:   Number of plots to print.
		--threshold: Plots with NDVI below this are reported as stressed.
		--heatmap:   PNG heatmap output path.
		--export:    NDVI results CSV output path. Empty disables it.
		--parquet:   Optional NDVI results Parquet output path.
		--geotiff:   Optional NDVI GeoTIFF output path, placed with the
		             --originLat/--originLng/--plotSize flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runField(runConfigFromViper(), cmd.OutOrStdout())
	},
}

func runConfigFromViper() runConfig {
	return runConfig{
		DataPath:  viper.GetString("data"),
		Grid:      generateOptions(),
		Preview:   viper.GetInt("preview"),
		Threshold: viper.GetFloat64("threshold"),
		Heatmap:   viper.GetString("heatmap"),
		Scale:     viper.GetInt("scale"),
		Export:    viper.GetString("export"),
		Parquet:   viper.GetString("parquet"),
		GeoTIFF:   viper.GetString("geotiff"),
		Georef:    georefFromConfig(),
	}
}

func runField(cfg runConfig, out io.Writer) error {
	records, err := loadOrGenerate(cfg.DataPath, cfg.Grid, out)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no plots", cfg.DataPath)
	}
	rows, cols := ndvi.Dimensions(records)
	logrus.WithFields(logrus.Fields{"rows": rows, "cols": cols}).Info("Computing NDVI")

	results := ndvi.ComputeAll(records)
	report.Preview(out, results, cfg.Preview)
	report.FieldSummary(out, ndvi.Summarize(results), ndvi.Stressed(results, cfg.Threshold), cfg.Threshold)

	grid := ndvi.Grid(results, rows, cols)
	heatmapOpts := report.DefaultHeatmapOptions()
	heatmapOpts.Scale = cfg.Scale
	if err := report.SaveHeatmap(cfg.Heatmap, grid, heatmapOpts); err != nil {
		return fmt.Errorf("writing heatmap: %w", err)
	}
	if cfg.Export != "" {
		if err := cellsio.WriteResultsCSV(results, cfg.Threshold, cfg.Export); err != nil {
			return fmt.Errorf("writing results csv: %w", err)
		}
	}
	if cfg.Parquet != "" {
		if err := cellsio.WriteResultsParquet(results, cfg.Threshold, cfg.Parquet); err != nil {
			return fmt.Errorf("writing results parquet: %w", err)
		}
	}
	if cfg.GeoTIFF != "" {
		if err := rasterio.WriteNDVIGeoTIFF(cfg.GeoTIFF, grid, cfg.Georef); err != nil {
			return fmt.Errorf("writing geotiff: %w", err)
		}
	}
	return nil
}

// loadOrGenerate reads the dataset at path, regenerating it first when the
// file is absent or was written with a different column layout.
func loadOrGenerate(path string, opts fieldgen.Options, out io.Writer) ([]fieldgen.SpectralRecord, error) {
	regenerate := func() error {
		if err := generateDataset(path, opts); err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated synthetic dataset at %s\n", path)
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := regenerate(); err != nil {
			return nil, err
		}
	}

	records, err := cellsio.LoadSpectralCSV(path)
	if errors.Is(err, cellsio.ErrMissingColumn) {
		logrus.Warnf("Dataset layout out of date, regenerating: %v", err)
		if err := regenerate(); err != nil {
			return nil, err
		}
		records, err = cellsio.LoadSpectralCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return records, nil
}

func georefFromConfig() celltools.Georef {
	return celltools.Georef{
		OriginLat: viper.GetFloat64("originLat"),
		OriginLng: viper.GetFloat64("originLng"),
		PlotSizeM: viper.GetFloat64("plotSize"),
	}
}

func addGeorefFlags(cmd *cobra.Command) {
	georef := celltools.DefaultGeoref()
	cmd.Flags().Float64("originLat", georef.OriginLat, "Latitude of the north-west field corner")
	cmd.Flags().Float64("originLng", georef.OriginLng, "Longitude of the north-west field corner")
	cmd.Flags().Float64("plotSize", georef.PlotSizeM, "Plot edge length in metres")
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("data", defaultDataPath, "Spectral CSV to read, generated when missing")
	runCmd.Flags().IntP("preview", "p", 80, "Number of plots to print")
	runCmd.Flags().Float64P("threshold", "t", ndvi.DefaultStressThreshold, "NDVI below which a plot is reported as stressed")
	runCmd.Flags().String("heatmap", "ndvi_heatmap.png", "Heatmap PNG output path")
	runCmd.Flags().Int("scale", report.DefaultHeatmapOptions().Scale, "Heatmap pixels per plot")
	runCmd.Flags().String("export", "ndvi_results.csv", "NDVI results CSV output path, empty to skip")
	runCmd.Flags().String("parquet", "", "NDVI results Parquet output path")
	runCmd.Flags().String("geotiff", "", "NDVI GeoTIFF output path")
	addGridFlags(runCmd)
	addGeorefFlags(runCmd)
}
