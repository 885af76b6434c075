package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreiashu/heartdash"
)

// Metrics holds the Prometheus collectors of one server. Each server owns
// its registry so tests can build many servers in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	noMatch      prometheus.Counter
	tableRecords prometheus.Gauge
	tableLoaded  prometheus.Gauge
}

// NewMetrics registers the heartdash collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heartdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "heartdash",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route"}),
		noMatch: f.NewCounter(prometheus.CounterOpts{
			Namespace: "heartdash",
			Name:      "rate_lookups_no_match_total",
			Help:      "Point rate lookups that matched no records.",
		}),
		tableRecords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "heartdash",
			Name:      "table_records",
			Help:      "Records in the served table.",
		}),
		tableLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "heartdash",
			Name:      "table_loaded_timestamp_seconds",
			Help:      "Unix time the served table was loaded.",
		}),
	}
}

// SetTable records the size and load time of the served table.
func (m *Metrics) SetTable(t *heartdash.Table) {
	m.tableRecords.Set(float64(t.Len()))
	m.tableLoaded.Set(float64(t.LoadedAt().Unix()))
}

// Middleware counts and times every request.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
