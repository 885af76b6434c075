package heartdash

import (
	"strings"
	"testing"
	"time"
)

// fixtureCSV mirrors the CDC extract layout: mixed-case headers, extra
// columns, quoted cells containing commas, and the aggregate/blank rows the
// loader must drop (Nation, State, blank rate, Overall gender, Overall
// ethnicity).
const fixtureCSV = `Year,LocationAbbr,LocationDesc,GeographicLevel,DataSource,Data_Value,Data_Value_Unit,StratificationCategory1,Stratification1,StratificationCategory2,Stratification2,Y_lat,X_lon
2017,US,Nation,Nation,NVSS,319.9,"per 100,000 population",Gender,Overall,Race/Ethnicity,Overall,,
2017,GA,State,State,NVSS,300.1,"per 100,000 population",Gender,Male,Race/Ethnicity,White,32.83,-83.63
2017,GA,Fulton,County,NVSS,250.0,"per 100,000 population",Gender,Male,Race/Ethnicity,White,33.79,-84.47
2017,GA,Fulton,County,NVSS,270.0,"per 100,000 population",Gender,Male,Race/Ethnicity,White,33.79,-84.47
2017,GA,Fulton,County,NVSS,180.5,"per 100,000 population",Gender,Female,Race/Ethnicity,Black,33.79,-84.47
2017,GA,Fulton,County,NVSS,,"per 100,000 population",Gender,Female,Race/Ethnicity,White,33.79,-84.47
2017,GA,Fulton,County,NVSS,210.0,"per 100,000 population",Gender,Overall,Race/Ethnicity,White,33.79,-84.47
2017,GA,Fulton,County,NVSS,220.0,"per 100,000 population",Gender,Male,Race/Ethnicity,Overall,33.79,-84.47
2017,GA,Cobb,County,NVSS,199.99,"per 100,000 population",Gender,Male,Race/Ethnicity,White,33.94,-84.58
2017,GA,Cobb,County,NVSS,150.25,"per 100,000 population",Gender,Female,Race/Ethnicity,Hispanic,33.94,-84.58
2017,AL,Autauga,County,NVSS,410.2,"per 100,000 population",Gender,Male,Race/Ethnicity,Black,32.54,-86.64
2017,AL,Autauga,County,NVSS,95.4,"per 100,000 population",Gender,Female,Race/Ethnicity,Asian and Pacific Islander,32.54,-86.64
2017,AL,Baldwin,County,NVSS,130.0,"per 100,000 population",Gender,Female,Race/Ethnicity,White,,
2017,TX,Travis,County,NVSS,199.99,"per 100,000 population",Gender,Male,Race/Ethnicity,Hispanic,30.33,-97.78
`

// fixtureRows is the number of records fixtureCSV keeps after cleaning.
const fixtureRows = 9

var fixtureTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func loadFixture() (*Table, error) {
	return LoadReader(strings.NewReader(fixtureCSV),
		WithSourceName("fixture"),
		WithClock(func() time.Time { return fixtureTime }),
	)
}

func mustLoadFixture(t testing.TB) *Table {
	t.Helper()
	tbl, err := loadFixture()
	if err != nil {
		t.Fatalf("Failed to load fixture: %v", err)
	}
	return tbl
}
