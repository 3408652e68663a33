// Package cmd /*
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ndvi-tools/cellsio"
	"ndvi-tools/celltools"
	"ndvi-tools/ndvi"
)

// indexcellsCmd represents the indexcells command
var indexcellsCmd = &cobra.Command{
	Use:   "indexcells [input.csv] [output.parquet|output.csv]",
	Short: "Aggregate plot NDVI into S2 cells",
	Long: `Compute NDVI for every plot of a spectral CSV, place the plots on
	the ground and write a Parquet file containing S2 cell IDs and the
	aggregated NDVI of the plots each cell contains. An output path ending
	in .csv writes ';'-separated text instead.

	Options:
		--s2Lvl:     S2 cell level to generate results for. Essentially output resolution.
		--aggFunc:   Function to use when aggregating to S2 cell. Default is the mean,
		             choose from: mean, sum, max, min
		--originLat, --originLng: North-west corner of the field.
		--plotSize:  Plot edge length in metres.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := celltools.ConfigOpts{
			S2Lvl:   viper.GetInt("s2Lvl"),
			AggFunc: chooseAggFunc(viper.GetString("aggFunc")),
		}
		return indexCells(args[0], args[1], georefFromConfig(), opts)
	},
}

func indexCells(input, output string, georef celltools.Georef, opts celltools.ConfigOpts) error {
	records, err := cellsio.LoadSpectralCSV(input)
	if err != nil {
		return err
	}
	cells, err := celltools.IndexPlots(ndvi.ComputeAll(records), georef, opts)
	if err != nil {
		return err
	}
	write := cellsio.WriteCellsParquet
	if strings.EqualFold(filepath.Ext(output), ".csv") {
		write = cellsio.WriteCellsCSV
	}
	if err := write(cells, output); err != nil {
		return fmt.Errorf("writing cells: %w", err)
	}
	return nil
}

func chooseAggFunc(funcFlag string) celltools.AggFunc {
	aggFunc, ok := celltools.AggFuncByName(funcFlag)
	if !ok {
		logrus.Warnf("Aggregation function %s not recognized, using mean", funcFlag)
		return celltools.Mean
	}
	return aggFunc
}

func init() {
	rootCmd.AddCommand(indexcellsCmd)

	indexcellsCmd.Flags().IntP("s2Lvl", "l", 16, "S2 cell level to generate results for. Essentially output resolution")
	indexcellsCmd.Flags().StringP("aggFunc", "a", "mean", "Function to use when aggregating to S2 cell. Choose from: mean, sum, max, min")
	addGeorefFlags(indexcellsCmd)
}
