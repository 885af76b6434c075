package server

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes() {
	h := &handler{table: s.table, cfg: s.Cfg, metrics: s.Metrics}

	s.App.Get("/health", h.Health)
	s.App.Get("/metrics", s.Metrics.Handler())

	api := s.App.Group("/api")
	api.Get("/table", h.Table)
	api.Get("/domain", h.Domain)
	api.Get("/rate", h.Rate)
	api.Get("/below", h.Below)
	api.Get("/clusters", h.Clusters)
	api.Get("/top", h.Top)
	api.Get("/counts/:dim", h.Counts)
	api.Get("/summary", h.Summary)
	api.Get("/describe/:dim", h.Describe)
	api.Get("/nearest", h.Nearest)
	api.Get("/charts/:dim", h.Chart)
}
