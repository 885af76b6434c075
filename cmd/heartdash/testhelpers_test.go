package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testCSV = `Year,LocationAbbr,LocationDesc,GeographicLevel,Data_Value,Data_Value_Unit,Stratification1,Stratification2,Y_lat,X_lon
2017,US,Nation,Nation,319.9,"per 100,000 population",Overall,Overall,,
2017,GA,Fulton,County,250.0,"per 100,000 population",Male,White,33.79,-84.47
2017,GA,Fulton,County,270.0,"per 100,000 population",Male,White,33.79,-84.47
2017,GA,Fulton,County,180.5,"per 100,000 population",Female,Black,33.79,-84.47
2017,GA,Cobb,County,199.99,"per 100,000 population",Male,White,33.94,-84.58
2017,GA,Cobb,County,150.25,"per 100,000 population",Female,Hispanic,33.94,-84.58
2017,AL,Autauga,County,410.2,"per 100,000 population",Male,Black,32.54,-86.64
2017,AL,Baldwin,County,130.0,"per 100,000 population",Female,White,,
`

var envKeys = []string{
	"HEARTDASH_DATA", "HEARTDASH_ADDR", "HEARTDASH_TOP_N", "HEARTDASH_THRESHOLD",
	"HEARTDASH_CHART_DIR", "HEARTDASH_SOURCE_URL", "HEARTDASH_GEOHASH_PRECISION",
}

// writeTestData writes testCSV into a temp dir and returns its path.
func writeTestData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heart.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("write test data: %v", err)
	}
	return path
}

// resetFlags restores every flag of cmd and its children to its default so
// the shared rootCmd can be executed repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs rootCmd with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}
