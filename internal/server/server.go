// Package server exposes a loaded heartdash table as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/andreiashu/heartdash"
	"github.com/andreiashu/heartdash/internal/config"
	hdlog "github.com/andreiashu/heartdash/internal/log"
)

// Server wraps the Fiber app, its configuration and the table it serves.
type Server struct {
	App     *fiber.App
	Cfg     *config.Config
	Metrics *Metrics

	table *heartdash.Table
	log   *slog.Logger
}

// New creates a server for table with middleware and routes registered.
func New(cfg *config.Config, table *heartdash.Table) *Server {
	lg := hdlog.Component("server")
	app := fiber.New(fiber.Config{
		AppName: "heartdash",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				message = fe.Message
			} else {
				lg.Error("request failed", "path", c.Path(), "error", err)
			}
			return jsonError(c, code, message)
		},
	})

	s := &Server{
		App:     app,
		Cfg:     cfg,
		Metrics: NewMetrics(),
		table:   table,
		log:     lg,
	}
	s.Metrics.SetTable(table)

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(s.Metrics.Middleware())

	s.RegisterRoutes()
	return s
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("serving mortality table", "addr", s.Cfg.ServerAddr, "records", s.table.Len(), "table_id", s.table.ID())
	return s.App.Listen(s.Cfg.ServerAddr, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
