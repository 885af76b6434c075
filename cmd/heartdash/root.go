package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreiashu/heartdash"
	"github.com/andreiashu/heartdash/internal/config"
	hdlog "github.com/andreiashu/heartdash/internal/log"
	"github.com/andreiashu/heartdash/internal/render"
)

// Global flag values.
var (
	dataPath   string
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
	jsonOut    bool
)

// cfg is the effective configuration, resolved before every subcommand runs.
var cfg *config.Config

// rootCmd is the base command for heartdash.
var rootCmd = &cobra.Command{
	Use:   "heartdash",
	Short: "Explore county heart disease mortality rates",
	Long: `heartdash loads a CDC county-level heart disease mortality extract and
answers the questions a dashboard asks of it: which states, counties, genders
and ethnicities can be selected, the mean rate for a selection, which places
fall below a rate threshold, and which records rank highest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		hdlog.Setup(verbose, quiet)
		if noColor {
			render.SetColor(false)
		}

		c, err := resolveConfig(cmd)
		if err != nil {
			return exitError(ExitInvalidArgs, "heartdash: %v", err)
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "mortality CSV (.csv, .gz, .bz2 or .zip)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(domainCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(belowCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(nearestCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig layers the config file, HEARTDASH_* variables and the --data
// flag, in increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.FileName
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("data") {
		c.DataPath = dataPath
	}
	if err := config.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// loadTable loads the configured data source.
func loadTable() (*heartdash.Table, error) {
	if cfg.DataPath == "" {
		return nil, exitError(ExitInvalidArgs, "heartdash: no data source, set --data or HEARTDASH_DATA")
	}
	tbl, err := heartdash.Load(cfg.DataPath)
	if errors.Is(err, heartdash.ErrIngest) {
		return nil, exitError(ExitIngest, "heartdash: %v", err)
	}
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
