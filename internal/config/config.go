// Package config loads heartdash settings from an optional YAML file and
// HEARTDASH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andreiashu/heartdash"
)

// FileName is the config file looked up when no --config path is given.
const FileName = "heartdash.yaml"

// Config holds all settings shared by the CLI and the HTTP server.
type Config struct {
	DataPath         string  `yaml:"data_path"`         // env: HEARTDASH_DATA
	ServerAddr       string  `yaml:"server_addr"`       // env: HEARTDASH_ADDR, default ":8080"
	TopN             int     `yaml:"top_n"`             // env: HEARTDASH_TOP_N, default 20
	DefaultThreshold float64 `yaml:"default_threshold"` // env: HEARTDASH_THRESHOLD, default 100
	ChartDir         string  `yaml:"chart_dir"`         // env: HEARTDASH_CHART_DIR, default "."
	SourceURL        string  `yaml:"source_url"`        // env: HEARTDASH_SOURCE_URL
	GeohashPrecision int     `yaml:"geohash_precision"` // env: HEARTDASH_GEOHASH_PRECISION, default 4
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ServerAddr:       ":8080",
		TopN:             heartdash.DefaultTopN,
		DefaultThreshold: 100,
		ChartDir:         ".",
		GeohashPrecision: 4,
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults and a nil error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from HEARTDASH_* variables. Empty values are
// ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("HEARTDASH_DATA"); ok {
		c.DataPath = v
	}
	if v, ok := get("HEARTDASH_ADDR"); ok {
		c.ServerAddr = v
	}
	if v, ok := get("HEARTDASH_CHART_DIR"); ok {
		c.ChartDir = v
	}
	if v, ok := get("HEARTDASH_SOURCE_URL"); ok {
		c.SourceURL = v
	}
	if v, ok := get("HEARTDASH_TOP_N"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTDASH_TOP_N: %w", err)
		}
		c.TopN = n
	}
	if v, ok := get("HEARTDASH_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("HEARTDASH_THRESHOLD: %w", err)
		}
		c.DefaultThreshold = f
	}
	if v, ok := get("HEARTDASH_GEOHASH_PRECISION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTDASH_GEOHASH_PRECISION: %w", err)
		}
		c.GeohashPrecision = n
	}
	return nil
}

// Validate checks all fields and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.ServerAddr == "" {
		errs = append(errs, "server_addr: must not be empty")
	}
	if cfg.TopN < 0 {
		errs = append(errs, fmt.Sprintf("top_n: must be non-negative, got %d", cfg.TopN))
	}
	if math.IsNaN(cfg.DefaultThreshold) || math.IsInf(cfg.DefaultThreshold, 0) {
		errs = append(errs, fmt.Sprintf("default_threshold: must be finite, got %g", cfg.DefaultThreshold))
	}
	if cfg.GeohashPrecision < heartdash.MinGeohashPrecision || cfg.GeohashPrecision > heartdash.MaxGeohashPrecision {
		errs = append(errs, fmt.Sprintf("geohash_precision: must be between %d and %d, got %d",
			heartdash.MinGeohashPrecision, heartdash.MaxGeohashPrecision, cfg.GeohashPrecision))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}
