package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	hdlog "github.com/andreiashu/heartdash/internal/log"
	"github.com/andreiashu/heartdash/internal/server"
)

var serveAddr string

// shutdownTimeout bounds how long in-flight requests may take after a signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.ServerAddr = serveAddr
		}
		tbl, err := loadTable()
		if err != nil {
			return err
		}

		srv := server.New(cfg, tbl)
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		hdlog.Component("serve").Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
