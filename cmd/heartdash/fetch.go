package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andreiashu/heartdash"
	hdlog "github.com/andreiashu/heartdash/internal/log"
)

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch [URL]",
	Short: "Download the raw mortality CSV",
	Long: `Download the raw source file once to disk. The URL defaults to
source_url from the config and the destination to the configured data path.
The download is loaded before it replaces the destination, so a bad
response never overwrites a working file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := cfg.SourceURL
		if len(args) == 1 {
			url = args[0]
		}
		if url == "" {
			return exitError(ExitInvalidArgs, "heartdash: no URL, pass one or set source_url")
		}
		out := cfg.DataPath
		if fetchOut != "" {
			out = fetchOut
		}
		if out == "" {
			return exitError(ExitInvalidArgs, "heartdash: no destination, set --out or --data")
		}

		// Download beside the destination, keeping its extension so Load
		// picks the same decompressor, and only replace out once it loads.
		tmp := filepath.Join(filepath.Dir(out), ".partial-"+filepath.Base(out))
		n, err := heartdash.Fetch(cmd.Context(), url, tmp)
		if err != nil {
			return exitError(ExitIngest, "heartdash: %v", err)
		}
		hdlog.Component("fetch").Debug("downloaded source", "url", url, "path", tmp, "bytes", n)

		tbl, err := heartdash.Load(tmp, heartdash.WithSourceName(url))
		if err != nil {
			os.Remove(tmp)
			return exitError(ExitIngest, "heartdash: downloaded file is not usable, %s left unchanged: %v", out, err)
		}
		if err := os.Rename(tmp, out); err != nil {
			os.Remove(tmp)
			return exitError(ExitIngest, "heartdash: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes, %d records\n", out, n, tbl.Len())
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "destination path (default from --data)")
}
