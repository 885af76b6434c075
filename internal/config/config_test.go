package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, 100.0, cfg.DefaultThreshold)
	assert.Equal(t, 4, cfg.GeohashPrecision)
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
data_path: data/heart.csv
top_n: 10
default_threshold: 250.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/heart.csv", cfg.DataPath)
	assert.Equal(t, 10, cfg.TopN)
	assert.InDelta(t, 250.5, cfg.DefaultThreshold, 0.001)
	// Unset keys keep their defaults.
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 4, cfg.GeohashPrecision)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{{invalid yaml"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv_OverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("data_path: from-file.csv\ntop_n: 5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"HEARTDASH_DATA":              "from-env.csv",
		"HEARTDASH_ADDR":              "127.0.0.1:9000",
		"HEARTDASH_THRESHOLD":         "180",
		"HEARTDASH_GEOHASH_PRECISION": "6",
		"HEARTDASH_SOURCE_URL":        "  ",
	})))

	assert.Equal(t, "from-env.csv", cfg.DataPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddr)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 180.0, cfg.DefaultThreshold)
	assert.Equal(t, 6, cfg.GeohashPrecision)
	assert.Empty(t, cfg.SourceURL)
}

func TestApplyEnv_BadNumbers(t *testing.T) {
	for _, key := range []string{"HEARTDASH_TOP_N", "HEARTDASH_THRESHOLD", "HEARTDASH_GEOHASH_PRECISION"} {
		t.Run(key, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(map[string]string{key: "lots"}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))

	cfg := Default()
	cfg.TopN = -1
	cfg.GeohashPrecision = 13
	cfg.DefaultThreshold = math.NaN()
	cfg.ServerAddr = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_n")
	assert.Contains(t, err.Error(), "geohash_precision")
	assert.Contains(t, err.Error(), "default_threshold")
	assert.Contains(t, err.Error(), "server_addr")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))
	assert.Contains(t, buf.String(), "top_n: 20")
	assert.Contains(t, buf.String(), "server_addr:")
}
