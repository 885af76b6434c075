package server

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/andreiashu/heartdash"
	"github.com/andreiashu/heartdash/internal/config"
	"github.com/andreiashu/heartdash/internal/render"
)

// suggestDistance is the edit distance used for county suggestions.
const suggestDistance = 2

type handler struct {
	table   *heartdash.Table
	cfg     *config.Config
	metrics *Metrics
}

// tableInfo describes the served table.
type tableInfo struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	LoadedAt         time.Time `json:"loaded_at"`
	Records          int       `json:"records"`
	RateMin          float64   `json:"rate_min"`
	RateMax          float64   `json:"rate_max"`
	DefaultThreshold float64   `json:"default_threshold"`
}

// belowResult is the map data for a threshold.
type belowResult struct {
	Threshold float64              `json:"threshold"`
	RateMin   float64              `json:"rate_min"`
	RateMax   float64              `json:"rate_max"`
	Count     int                  `json:"count"`
	Locations []heartdash.Location `json:"locations"`
}

type clusterResult struct {
	Threshold float64             `json:"threshold"`
	Precision int                 `json:"precision"`
	Clusters  []heartdash.Cluster `json:"clusters"`
}

type rateResult struct {
	State     string `json:"state"`
	County    string `json:"county"`
	Gender    string `json:"gender"`
	Ethnicity string `json:"ethnicity"`
	heartdash.Lookup
}

type nearestResult struct {
	heartdash.Record
	DistanceKm float64 `json:"distance_km"`
}

// Health reports liveness and the served table size.
func (h *handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"records": h.table.Len(),
	})
}

// Table returns metadata for the loaded table.
func (h *handler) Table(c fiber.Ctx) error {
	lo, hi := h.table.RateRange()
	return jsonSuccess(c, tableInfo{
		ID:               h.table.ID(),
		Source:           h.table.Source(),
		LoadedAt:         h.table.LoadedAt(),
		Records:          h.table.Len(),
		RateMin:          lo,
		RateMax:          hi,
		DefaultThreshold: h.table.ClampThreshold(h.cfg.DefaultThreshold),
	})
}

// Domain returns the choices for the next unassigned selector.
func (h *handler) Domain(c fiber.Ctx) error {
	sel := heartdash.Selection{
		State:  c.Query("state"),
		County: c.Query("county"),
		Gender: c.Query("gender"),
	}
	return jsonSuccess(c, h.table.Domain(sel))
}

// Rate returns the mean rate for one complete selection.
func (h *handler) Rate(c fiber.Ctx) error {
	state, county := c.Query("state"), c.Query("county")
	gender, ethnicity := c.Query("gender"), c.Query("ethnicity")
	if state == "" || county == "" || gender == "" || ethnicity == "" {
		return jsonError(c, fiber.StatusBadRequest, "state, county, gender and ethnicity are required")
	}

	lookup, err := h.table.PointRate(state, county, gender, ethnicity)
	if errors.Is(err, heartdash.ErrNoMatch) {
		h.metrics.noMatch.Inc()
		var suggestions []string
		if !slices.Contains(h.table.Domain(heartdash.Selection{State: state}).Values, county) {
			suggestions = h.table.SuggestCounties(state, county, suggestDistance)
		}
		return jsonNoMatch(c, err.Error(), suggestions)
	}
	if err != nil {
		return err
	}
	return jsonSuccess(c, rateResult{
		State:     state,
		County:    county,
		Gender:    gender,
		Ethnicity: ethnicity,
		Lookup:    lookup,
	})
}

// Below returns the locations of records under the clamped threshold.
func (h *handler) Below(c fiber.Ctx) error {
	th, err := h.threshold(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	lo, hi := h.table.RateRange()
	locs := h.table.BelowThreshold(th)
	return jsonSuccess(c, belowResult{
		Threshold: th,
		RateMin:   lo,
		RateMax:   hi,
		Count:     len(locs),
		Locations: locs,
	})
}

// Clusters returns geohash clusters of the locations under the threshold.
func (h *handler) Clusters(c fiber.Ctx) error {
	th, err := h.threshold(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	precision := h.cfg.GeohashPrecision
	if v := c.Query("precision"); v != "" {
		precision, err = strconv.Atoi(v)
		if err != nil || precision < heartdash.MinGeohashPrecision || precision > heartdash.MaxGeohashPrecision {
			return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("precision must be an integer between %d and %d",
				heartdash.MinGeohashPrecision, heartdash.MaxGeohashPrecision))
		}
	}
	return jsonSuccess(c, clusterResult{
		Threshold: th,
		Precision: precision,
		Clusters:  heartdash.ClusterLocations(h.table.BelowThreshold(th), precision),
	})
}

// Top returns the highest-rate records.
func (h *handler) Top(c fiber.Ctx) error {
	n := h.cfg.TopN
	if v := c.Query("n"); v != "" {
		var err error
		n, err = strconv.Atoi(v)
		if err != nil || n < 0 {
			return jsonError(c, fiber.StatusBadRequest, "n must be a non-negative integer")
		}
	}
	return jsonSuccess(c, h.table.TopN(n))
}

// Counts returns record counts per value of a dimension.
func (h *handler) Counts(c fiber.Ctx) error {
	dim, err := heartdash.ParseDimension(c.Params("dim"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return jsonSuccess(c, h.table.ValueCounts(dim))
}

// Summary returns statistics over every rate in the table.
func (h *handler) Summary(c fiber.Ctx) error {
	return jsonSuccess(c, h.table.Summary())
}

// Describe returns per-group statistics for a dimension.
func (h *handler) Describe(c fiber.Ctx) error {
	dim, err := heartdash.ParseDimension(c.Params("dim"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return jsonSuccess(c, h.table.Describe(dim))
}

// Nearest resolves a coordinate to the closest located record.
func (h *handler) Nearest(c fiber.Ctx) error {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		return jsonError(c, fiber.StatusBadRequest, "lat and lon must be numbers")
	}
	r, ok := h.table.Nearest(lat, lon)
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "no mapped record near the given point")
	}
	q := heartdash.Location{Lat: lat, Lon: lon, Valid: true}
	return jsonSuccess(c, nearestResult{
		Record:     r,
		DistanceKm: math.Round(heartdash.DistanceKm(q, r.Location)*100) / 100,
	})
}

// Chart renders a distribution bar chart as PNG.
func (h *handler) Chart(c fiber.Ctx) error {
	name := strings.TrimSuffix(c.Params("dim"), ".png")
	dim, err := heartdash.ParseDimension(name)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	counts := h.table.ValueCounts(dim)
	p, err := render.CountsChart(dim, counts)
	if errors.Is(err, render.ErrEmptyChart) {
		return jsonError(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w, ht := render.ChartSize(dim, len(counts))
	if err := render.WritePNG(&buf, p, w, ht); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

// threshold reads ?threshold=, defaulting to the configured value, and
// clamps it to the table's rate range.
func (h *handler) threshold(c fiber.Ctx) (float64, error) {
	th := h.cfg.DefaultThreshold
	if v := c.Query("threshold"); v != "" {
		var err error
		th, err = strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(th) {
			return 0, fmt.Errorf("threshold must be a number, got %q", v)
		}
	}
	return h.table.ClampThreshold(th), nil
}
