package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreiashu/heartdash"
	"github.com/andreiashu/heartdash/internal/render"
)

// Query flag values.
var (
	selState     string
	selCounty    string
	selGender    string
	belowTh      float64
	belowCluster bool
	belowPrec    int
	topN         int
	nearLat      float64
	nearLon      float64
)

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "List the choices for the next selector",
	Long: `List the values available for the first unassigned selector, in the
order state, county, gender, ethnicity. Each assigned selector narrows the
choices.`,
	Example: `  heartdash domain
  heartdash domain --state GA
  heartdash domain --state GA --county Fulton --gender Male`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		d := tbl.Domain(heartdash.Selection{State: selState, County: selCounty, Gender: selGender})
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), d)
		}
		return render.Domain(cmd.OutOrStdout(), d)
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup STATE COUNTY GENDER ETHNICITY",
	Short: "Print the mean rate for one selection",
	Example: `  heartdash lookup GA Fulton Male White
  heartdash lookup TX Travis Female "Asian and Pacific Islander"`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		state, county, gender, ethnicity := args[0], args[1], args[2], args[3]
		res, err := tbl.PointRate(state, county, gender, ethnicity)
		if errors.Is(err, heartdash.ErrNoMatch) {
			msg := err.Error()
			if s := tbl.SuggestCounties(state, county, 2); len(s) > 0 && !slices.Contains(s, county) {
				msg += fmt.Sprintf("\ndid you mean: %s?", strings.Join(s, ", "))
			}
			return exitError(ExitNoData, "%s", msg)
		}
		if err != nil {
			return err
		}
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s per 100,000 (%d records)\n", render.FormatRate(res.Rate), res.Matches)
		return nil
	},
}

var belowCmd = &cobra.Command{
	Use:   "below",
	Short: "List locations with rates below a threshold",
	Long: `List the coordinates of every record whose rate is strictly below the
threshold. The threshold is clamped to the table's rate range; records with
no coordinates are listed as "-". With --clusters the points are grouped by
geohash instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		th := cfg.DefaultThreshold
		if cmd.Flags().Changed("threshold") {
			th = belowTh
		}
		th = tbl.ClampThreshold(th)
		locs := tbl.BelowThreshold(th)

		out := cmd.OutOrStdout()
		if belowCluster {
			prec := cfg.GeohashPrecision
			if cmd.Flags().Changed("precision") {
				prec = belowPrec
			}
			clusters := heartdash.ClusterLocations(locs, prec)
			if jsonOut {
				return writeJSON(out, clusters)
			}
			return render.Clusters(out, clusters)
		}
		if jsonOut {
			return writeJSON(out, locs)
		}
		fmt.Fprintf(out, "%d locations below %s\n", len(locs), render.FormatRate(th))
		return render.Locations(out, locs)
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank records by rate, highest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		n := cfg.TopN
		if cmd.Flags().Changed("limit") {
			n = topN
		}
		if n < 0 {
			return exitError(ExitInvalidArgs, "heartdash: --limit must be non-negative, got %d", n)
		}
		rk := tbl.TopN(n)
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), rk)
		}
		return render.Ranking(cmd.OutOrStdout(), rk)
	},
}

var countsCmd = &cobra.Command{
	Use:       "counts state|county|gender|ethnicity",
	Short:     "Count records per value of a dimension",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"state", "county", "gender", "ethnicity"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, err := heartdash.ParseDimension(args[0])
		if err != nil {
			return exitError(ExitInvalidArgs, "heartdash: %v", err)
		}
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		counts := tbl.ValueCounts(dim)
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), counts)
		}
		return render.Counts(cmd.OutOrStdout(), dim, counts)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [state|county|gender|ethnicity]",
	Short: "Summarise rates overall or per group",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dim heartdash.Dimension
		if len(args) == 1 {
			var err error
			if dim, err = heartdash.ParseDimension(args[0]); err != nil {
				return exitError(ExitInvalidArgs, "heartdash: %v", err)
			}
		}
		tbl, err := loadTable()
		if err != nil {
			return err
		}

		header := "group"
		groups := []heartdash.GroupStats{tbl.Summary()}
		if len(args) == 1 {
			header = dim.String()
			groups = tbl.Describe(dim)
		}
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), groups)
		}
		return render.Stats(cmd.OutOrStdout(), header, groups)
	},
}

var nearestCmd = &cobra.Command{
	Use:     "nearest --lat LAT --lon LON",
	Short:   "Find the mapped record closest to a coordinate",
	Example: `  heartdash nearest --lat 33.79 --lon -84.47`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
			return exitError(ExitInvalidArgs, "heartdash: --lat and --lon are required")
		}
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		r, ok := tbl.Nearest(nearLat, nearLon)
		if !ok {
			return exitError(ExitNoData, "heartdash: no mapped record near %g, %g", nearLat, nearLon)
		}
		if jsonOut {
			return writeJSON(cmd.OutOrStdout(), r)
		}
		return render.Ranking(cmd.OutOrStdout(), heartdash.Ranking{
			Rows: []heartdash.Ranked{{Rank: 1, Record: r}},
		})
	},
}

func init() {
	domainCmd.Flags().StringVar(&selState, "state", "", "selected state abbreviation")
	domainCmd.Flags().StringVar(&selCounty, "county", "", "selected county")
	domainCmd.Flags().StringVar(&selGender, "gender", "", "selected gender")

	belowCmd.Flags().Float64Var(&belowTh, "threshold", 0, "rate threshold (default from config)")
	belowCmd.Flags().BoolVar(&belowCluster, "clusters", false, "group points by geohash")
	belowCmd.Flags().IntVar(&belowPrec, "precision", 0, "geohash precision for --clusters (default from config)")

	topCmd.Flags().IntVarP(&topN, "limit", "n", 0, "number of records (default from config)")

	nearestCmd.Flags().Float64Var(&nearLat, "lat", 0, "latitude in degrees")
	nearestCmd.Flags().Float64Var(&nearLon, "lon", 0, "longitude in degrees")
}
