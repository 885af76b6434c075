package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andreiashu/heartdash"
	"github.com/andreiashu/heartdash/internal/render"
)

var chartOut string

// defaultCharts are the distributions the dashboard shows.
var defaultCharts = []heartdash.Dimension{heartdash.DimState, heartdash.DimGender, heartdash.DimEthnicity}

var chartCmd = &cobra.Command{
	Use:   "chart [state|county|gender|ethnicity]...",
	Short: "Write distribution bar charts as PNG",
	Long: `Write one bar chart per dimension showing how many records each value
has. Without arguments the state, gender and ethnicity charts are written.
Files go to the configured chart directory as <dimension>.png unless --out
names a single file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dims := defaultCharts
		if len(args) > 0 {
			dims = make([]heartdash.Dimension, len(args))
			for i, a := range args {
				d, err := heartdash.ParseDimension(a)
				if err != nil {
					return exitError(ExitInvalidArgs, "heartdash: %v", err)
				}
				dims[i] = d
			}
		}
		if chartOut != "" && len(dims) != 1 {
			return exitError(ExitInvalidArgs, "heartdash: --out needs exactly one dimension")
		}

		tbl, err := loadTable()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.ChartDir, 0o755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}

		for _, dim := range dims {
			counts := tbl.ValueCounts(dim)
			p, err := render.CountsChart(dim, counts)
			if err != nil {
				return exitError(ExitNoData, "heartdash: %s chart: %v", dim, err)
			}
			path := chartOut
			if path == "" {
				path = filepath.Join(cfg.ChartDir, dim.String()+".png")
			}
			w, h := render.ChartSize(dim, len(counts))
			if err := render.SaveChart(p, w, h, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func init() {
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "output file for a single chart")
}
