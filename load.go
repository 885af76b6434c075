package heartdash

import (
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// sourceColumn maps a raw column (matched case-insensitively) to its
// canonical name in the cleaned table.
type sourceColumn struct {
	raw       string
	canonical string
}

// requiredColumns are the seven raw columns a source must provide.
var requiredColumns = []sourceColumn{
	{"locationabbr", ColumnState},
	{"locationdesc", ColumnCounty},
	{"data_value", ColumnRate},
	{"stratification1", ColumnGender},
	{"stratification2", ColumnEthnicity},
	{"y_lat", ColumnLat},
	{"x_lon", ColumnLon},
}

// Values marking aggregate rows that the cleaned table excludes.
const (
	aggregateNation = "Nation"
	aggregateState  = "State"
	aggregateAll    = "Overall"
)

const utf8BOM = "\ufeff"

// Load reads a heart disease mortality CSV from path and returns the cleaned
// table. Files ending in .gz or .bz2 are decompressed transparently; a .zip
// archive is searched for its first .csv entry.
//
// Every error returned matches ErrIngest and is an *IngestError.
func Load(path string, opts ...Option) (*Table, error) {
	cfg := defaultOptions()
	cfg.SourceName = path
	for _, opt := range opts {
		opt(cfg)
	}

	r, cleanup, err := openSource(path)
	if err != nil {
		return nil, &IngestError{Path: cfg.SourceName, Op: "open", Err: err}
	}
	defer cleanup()

	return load(r, cfg)
}

// LoadReader is Load for an already opened, uncompressed CSV stream.
func LoadReader(r io.Reader, opts ...Option) (*Table, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	return load(r, cfg)
}

// openSource opens path, unwrapping compression by extension.
func openSource(path string) (io.Reader, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZipSource(path)
	case ".gz":
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		zr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return zr, func() error {
			zr.Close()
			return fh.Close()
		}, nil
	case ".bz2":
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return bzip2.NewReader(fh), fh.Close, nil
	default:
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return fh, fh.Close, nil
	}
}

// openZipSource returns a reader over the first .csv entry of a zip archive.
// Entries are only streamed into memory, never extracted to disk.
func openZipSource(path string) (io.Reader, func() error, error) {
	rz, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening zip file: %w", err)
	}
	for _, f := range rz.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		fi, err := f.Open()
		if err != nil {
			rz.Close()
			return nil, nil, fmt.Errorf("opening %s in zip: %w", f.Name, err)
		}
		return fi, func() error {
			fi.Close()
			return rz.Close()
		}, nil
	}
	rz.Close()
	return nil, nil, errors.New("zip archive contains no .csv file")
}

// columnIndex holds the position of each required column in a source row.
type columnIndex struct {
	state, county, rate, gender, ethnicity, lat, lon int
}

// resolveColumns matches the header against requiredColumns. Names are
// trimmed and lower-cased; the first occurrence of a duplicate wins.
func resolveColumns(header []string) (columnIndex, []string) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := pos[key]; !ok {
			pos[key] = i
		}
	}

	found := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		idx, ok := pos[col.raw]
		if !ok {
			missing = append(missing, col.raw)
			continue
		}
		found[col.canonical] = idx
	}
	return columnIndex{
		state:     found[ColumnState],
		county:    found[ColumnCounty],
		rate:      found[ColumnRate],
		gender:    found[ColumnGender],
		ethnicity: found[ColumnEthnicity],
		lat:       found[ColumnLat],
		lon:       found[ColumnLon],
	}, missing
}

// dropCounts tallies why rows were excluded from the cleaned table.
type dropCounts struct {
	aggregate int
	noRate    int
	overall   int
}

func load(r io.Reader, cfg *Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &IngestError{Path: cfg.SourceName, Op: "header", Err: errors.New("empty source")}
	}
	if err != nil {
		return nil, &IngestError{Path: cfg.SourceName, Op: "header", Err: err}
	}
	cols, missing := resolveColumns(header)
	if len(missing) > 0 {
		return nil, &IngestError{Path: cfg.SourceName, Op: "header", Missing: missing}
	}

	var (
		records []Record
		dropped dropCounts
		line    = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &IngestError{Path: cfg.SourceName, Op: "read", Line: line, Err: err}
		}
		rec, ok := cleanRow(row, cols, &dropped)
		if ok {
			records = append(records, rec)
		}
	}

	t := &Table{
		id:       uuid.NewString(),
		source:   cfg.SourceName,
		loadedAt: cfg.Clock(),
		records:  records,
	}
	if len(records) > 0 {
		rates := make([]float64, len(records))
		for i, rec := range records {
			rates[i] = rec.Rate
		}
		t.minRate = floats.Min(rates)
		t.maxRate = floats.Max(rates)
	}
	t.buildCellIndex()

	slog.Debug("loaded mortality table",
		"source", cfg.SourceName,
		"rows", line-1,
		"kept", len(records),
		"dropped_aggregate", dropped.aggregate,
		"dropped_no_rate", dropped.noRate,
		"dropped_overall", dropped.overall,
	)
	return t, nil
}

// cleanRow projects a raw row onto a Record, reporting false for rows the
// cleaned table excludes. Categorical values are kept verbatim.
func cleanRow(row []string, cols columnIndex, dropped *dropCounts) (Record, bool) {
	county := row[cols.county]
	if county == aggregateNation || county == aggregateState {
		dropped.aggregate++
		return Record{}, false
	}
	rate, ok := parseNullableFloat(row[cols.rate])
	if !ok {
		dropped.noRate++
		return Record{}, false
	}
	gender, ethnicity := row[cols.gender], row[cols.ethnicity]
	if gender == aggregateAll || ethnicity == aggregateAll {
		dropped.overall++
		return Record{}, false
	}

	lat, latOK := parseNullableFloat(row[cols.lat])
	lon, lonOK := parseNullableFloat(row[cols.lon])
	var loc Location
	if latOK && lonOK {
		loc = Location{Lat: lat, Lon: lon, Valid: true}
		if !loc.latLng().IsValid() {
			loc = Location{}
		}
	}

	// ReuseRecord recycles row's backing array, not the strings themselves.
	return Record{
		State:     row[cols.state],
		County:    county,
		Rate:      rate,
		Gender:    gender,
		Ethnicity: ethnicity,
		Location:  loc,
	}, true
}

// parseNullableFloat parses a numeric cell. Blank, unparseable, NaN and
// infinite values are treated as null.
func parseNullableFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
