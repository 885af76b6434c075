package main

import (
	"github.com/spf13/cobra"

	"github.com/andreiashu/heartdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return config.Write(cmd.OutOrStdout(), cfg)
	},
}
