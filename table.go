// Package heartdash loads county-level heart disease mortality statistics
// into an immutable in-memory table and answers the lookups a dashboard
// needs: cascading selector domains, point rates, threshold maps, top-N
// rankings, value counts and descriptive statistics.
//
// A Table is built once by Load and never mutated afterwards, so every query
// method is safe for concurrent use without locking.
package heartdash

import (
	"encoding/json"
	"math"
	"time"

	"github.com/golang/geo/s2"
)

// Canonical column names of the cleaned table.
const (
	ColumnState     = "state"
	ColumnCounty    = "county"
	ColumnRate      = "rate"
	ColumnGender    = "gender"
	ColumnEthnicity = "ethnicity"
	ColumnLat       = "lat"
	ColumnLon       = "lon"
)

// Columns lists the cleaned table's columns in display order.
var Columns = []string{ColumnState, ColumnCounty, ColumnRate, ColumnGender, ColumnEthnicity, ColumnLat, ColumnLon}

// Location is a nullable geographic coordinate in degrees.
type Location struct {
	Lat   float64
	Lon   float64
	Valid bool // false when the source left the location unmapped
}

func (l Location) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(l.Lat, l.Lon)
}

// MarshalJSON encodes an unmapped location as {"lat":null,"lon":null}.
func (l Location) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte(`{"lat":null,"lon":null}`), nil
	}
	return json.Marshal(struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}{l.Lat, l.Lon})
}

// Record is one row of the cleaned table.
//
// No Record has County "Nation" or "State", Gender or Ethnicity "Overall",
// or a missing Rate.
type Record struct {
	State     string   `json:"state"`
	County    string   `json:"county"`
	Rate      float64  `json:"rate"` // deaths per 100,000 population, full precision
	Gender    string   `json:"gender"`
	Ethnicity string   `json:"ethnicity"`
	Location  Location `json:"location"`
}

// Options configures Load and LoadReader.
type Options struct {
	SourceName string           // Name used in errors for reader-based loads
	Clock      func() time.Time // Load timestamp source (default: time.Now)
}

// Option is a functional option for configuring a load.
type Option func(*Options)

// WithSourceName labels the source in errors and log lines.
func WithSourceName(name string) Option {
	return func(o *Options) {
		o.SourceName = name
	}
}

// WithClock overrides the clock used to stamp LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

func defaultOptions() *Options {
	return &Options{
		SourceName: "reader",
		Clock:      time.Now,
	}
}

// Table is the cleaned, immutable record set produced by a single load.
// Safe for concurrent use.
type Table struct {
	id        string
	source    string
	loadedAt  time.Time
	records   []Record
	minRate   float64
	maxRate   float64
	cellIndex map[s2.CellID][]int // S2 cell → record indices, located records only
}

// ID uniquely identifies this load. Reloading the same source yields a new ID.
func (t *Table) ID() string { return t.id }

// Source returns the path or name the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Len returns the number of cleaned records.
func (t *Table) Len() int { return len(t.records) }

// At returns the i-th record in table order.
func (t *Table) At(i int) Record { return t.records[i] }

// Records returns a copy of all records in table order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// RoundRate rounds a rate to 2 decimal places for display. Aggregation
// always uses full precision.
func RoundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
