package heartdash

import (
	"errors"
	"math"
	"sort"
	"strings"
	"testing"
)

func TestDomainOfEmptySelectionIsDistinctStates(t *testing.T) {
	tbl := mustLoadFixture(t)

	want := map[string]bool{}
	for _, r := range tbl.Records() {
		want[r.State] = true
	}
	got := tbl.Domain(Selection{}).Values
	if len(got) != len(want) {
		t.Fatalf("Domain({}) = %v, want %d distinct states", got, len(want))
	}
	seen := map[string]bool{}
	for _, v := range got {
		if seen[v] {
			t.Errorf("state %q listed twice", v)
		}
		seen[v] = true
		if !want[v] {
			t.Errorf("state %q not in table", v)
		}
	}
}

func TestDomainNext(t *testing.T) {
	tests := []struct {
		sel  Selection
		want Dimension
	}{
		{Selection{}, DimState},
		{Selection{State: "GA"}, DimCounty},
		{Selection{State: "GA", County: "Fulton"}, DimGender},
		{Selection{State: "GA", County: "Fulton", Gender: "Male"}, DimEthnicity},
		{Selection{County: "Fulton", Gender: "Male"}, DimState},
	}
	for _, tt := range tests {
		if got := tt.sel.Next(); got != tt.want {
			t.Errorf("%+v.Next() = %v, want %v", tt.sel, got, tt.want)
		}
	}
}

func TestDomainFiltersByEveryAssignedField(t *testing.T) {
	tbl := mustLoadFixture(t)
	// Hispanic appears in Cobb (Female) and Travis (Male); only the Cobb
	// Female records should surface under this selection.
	got := tbl.Domain(Selection{State: "GA", County: "Cobb", Gender: "Female"}).Values
	if len(got) != 1 || got[0] != "Hispanic" {
		t.Errorf("Domain = %v, want [Hispanic]", got)
	}
}

func TestPointRateIsOrderIndependent(t *testing.T) {
	tbl := mustLoadFixture(t)
	recs := tbl.Records()

	type filter func(Record) bool
	filters := []filter{
		func(r Record) bool { return r.State == "GA" },
		func(r Record) bool { return r.County == "Fulton" },
		func(r Record) bool { return r.Gender == "Male" },
		func(r Record) bool { return r.Ethnicity == "White" },
	}
	want, err := tbl.PointRate("GA", "Fulton", "Male", "White")
	if err != nil {
		t.Fatal(err)
	}

	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}
	for _, order := range orders {
		subset := recs
		for _, i := range order {
			var next []Record
			for _, r := range subset {
				if filters[i](r) {
					next = append(next, r)
				}
			}
			subset = next
		}
		var sum float64
		for _, r := range subset {
			sum += r.Rate
		}
		if got := RoundRate(sum / float64(len(subset))); got != want.Rate {
			t.Errorf("order %v: mean = %v, want %v", order, got, want.Rate)
		}
	}
}

func TestPointRateKeepsFullPrecision(t *testing.T) {
	src := "LocationAbbr,LocationDesc,Data_Value,Stratification1,Stratification2,Y_lat,X_lon\n" +
		"GA,Fulton,100.0049,Male,White,33.79,-84.47\n" +
		"GA,Fulton,100.0049,Male,White,33.79,-84.47\n" +
		"GA,Fulton,100.0149,Male,White,33.79,-84.47\n"
	tbl, err := LoadReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := tbl.PointRate("GA", "Fulton", "Male", "White")
	if err != nil {
		t.Fatal(err)
	}
	// Rounding each rate first would give 100.00.
	if got.Rate != 100.01 {
		t.Errorf("Rate = %v, want 100.01", got.Rate)
	}
	if want := 300.0247 / 3; math.Abs(got.Exact-want) > 1e-9 {
		t.Errorf("Exact = %v, want %v", got.Exact, want)
	}
}

func TestBelowThresholdIsSubset(t *testing.T) {
	tbl := mustLoadFixture(t)
	recs := tbl.Records()
	thresholds := []float64{math.Inf(-1), 0, 95.4, 130, 150.25, 199.99, 200, 410.2, 1000, math.Inf(1)}

	// Each result is exactly the table-order locations of records under it.
	for _, th := range thresholds {
		got := tbl.BelowThreshold(th)
		if got == nil {
			t.Errorf("BelowThreshold(%v) returned nil", th)
		}
		var want []Location
		for _, r := range recs {
			if r.Rate < th {
				want = append(want, r.Location)
			}
		}
		if len(got) != len(want) {
			t.Errorf("BelowThreshold(%v) returned %d locations, want %d", th, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("BelowThreshold(%v)[%d] = %+v, want %+v", th, i, got[i], want[i])
			}
		}
	}

	// Raising the threshold only adds points; existing ones keep their order.
	for i, lo := range thresholds {
		for _, hi := range thresholds[i:] {
			small, large := tbl.BelowThreshold(lo), tbl.BelowThreshold(hi)
			if !isSubsequence(small, large) {
				t.Errorf("BelowThreshold(%v) = %v is not an ordered subset of BelowThreshold(%v) = %v",
					lo, small, hi, large)
			}
		}
	}
}

// isSubsequence reports whether every element of sub appears in seq in the
// same relative order.
func isSubsequence(sub, seq []Location) bool {
	j := 0
	for _, l := range seq {
		if j < len(sub) && sub[j] == l {
			j++
		}
	}
	return j == len(sub)
}

func TestBelowThresholdNaN(t *testing.T) {
	tbl := mustLoadFixture(t)
	if got := tbl.BelowThreshold(math.NaN()); len(got) != 0 {
		t.Errorf("BelowThreshold(NaN) = %v, want empty", got)
	}
	if got := tbl.ClampThreshold(math.NaN()); got != 95.4 {
		t.Errorf("ClampThreshold(NaN) = %v, want 95.4", got)
	}
}

func TestTopNAllIsStableDescending(t *testing.T) {
	tbl := mustLoadFixture(t)
	recs := tbl.Records()
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Rate > recs[j].Rate })

	for _, n := range []int{tbl.Len(), tbl.Len() + 10} {
		rk := tbl.TopN(n)
		if len(rk.Rows) != tbl.Len() {
			t.Fatalf("TopN(%d) returned %d rows, want %d", n, len(rk.Rows), tbl.Len())
		}
		for i, row := range rk.Rows {
			if row.Rank != i+1 {
				t.Errorf("row %d rank = %d", i, row.Rank)
			}
			if row.Record != recs[i] {
				t.Errorf("row %d = %+v, want %+v", i, row.Record, recs[i])
			}
		}
	}
}

func TestSingleCombinationRoundTrip(t *testing.T) {
	src := "LocationAbbr,LocationDesc,Data_Value,Stratification1,Stratification2,Y_lat,X_lon\n" +
		"TX,Travis,199.987,Female,Hispanic,30.33,-97.78\n"
	tbl, err := LoadReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	sel := Selection{}
	want := []string{"TX", "Travis", "Female", "Hispanic"}
	for i, dim := range []Dimension{DimState, DimCounty, DimGender, DimEthnicity} {
		d := tbl.Domain(sel)
		if d.Dimension != dim || len(d.Values) != 1 || d.Values[0] != want[i] {
			t.Fatalf("step %d: Domain = %+v, want %s [%s]", i, d, dim, want[i])
		}
		switch dim {
		case DimState:
			sel.State = d.Values[0]
		case DimCounty:
			sel.County = d.Values[0]
		case DimGender:
			sel.Gender = d.Values[0]
		}
	}

	got, err := tbl.PointRate("TX", "Travis", "Female", "Hispanic")
	if err != nil {
		t.Fatal(err)
	}
	if got.Rate != 199.99 {
		t.Errorf("Rate = %v, want 199.99", got.Rate)
	}
}

func TestDescribe(t *testing.T) {
	tbl := mustLoadFixture(t)
	groups := tbl.Describe(DimState)
	if len(groups) != 3 {
		t.Fatalf("Describe(state) returned %d groups, want 3", len(groups))
	}

	ga := groups[0]
	if ga.Group != "GA" || ga.Count != 5 {
		t.Fatalf("first group = %+v, want GA with 5 records", ga)
	}
	if math.Abs(ga.Mean-210.148) > 1e-9 {
		t.Errorf("GA mean = %v, want 210.148", ga.Mean)
	}
	if ga.Median != 199.99 || ga.Min != 150.25 || ga.Max != 270.0 {
		t.Errorf("GA median/min/max = %v/%v/%v", ga.Median, ga.Min, ga.Max)
	}

	tx := groups[2]
	if tx.Group != "TX" || tx.Count != 1 || tx.StdDev != 0 || tx.Median != 199.99 {
		t.Errorf("TX group = %+v", tx)
	}

	al := groups[1]
	if al.Group != "AL" || al.Count != 3 || al.Median != 130.0 {
		t.Errorf("AL group = %+v", al)
	}

	// Even count takes the lower median.
	byGender := tbl.Describe(DimGender)
	if female := byGender[1]; female.Group != "Female" || female.Median != 130.0 {
		t.Errorf("Female group = %+v, want median 130", female)
	}
}

func TestSummary(t *testing.T) {
	tbl := mustLoadFixture(t)
	s := tbl.Summary()
	if s.Group != "all" || s.Count != fixtureRows {
		t.Fatalf("Summary() = %+v", s)
	}
	if s.Min != 95.4 || s.Max != 410.2 {
		t.Errorf("Summary min/max = %v/%v, want 95.4/410.2", s.Min, s.Max)
	}
	if s.StdDev <= 0 {
		t.Errorf("Summary std dev = %v, want > 0", s.StdDev)
	}
}

func TestParseDimension(t *testing.T) {
	for _, d := range []Dimension{DimState, DimCounty, DimGender, DimEthnicity} {
		got, err := ParseDimension(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDimension(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDimension("rate"); err == nil {
		t.Error("ParseDimension(rate) should fail")
	}
	if got := Dimension(9).String(); got != "Dimension(9)" {
		t.Errorf("Dimension(9).String() = %q", got)
	}
}

func TestNoMatchErrorMessage(t *testing.T) {
	tbl := mustLoadFixture(t)
	_, err := tbl.PointRate("GA", "Fultn", "Male", "White")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
	want := `no records for state="GA" county="Fultn" gender="Male" ethnicity="White"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRoundRate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{260, 260},
		{199.994, 199.99},
		{199.996, 200},
		{95.4, 95.4},
	}
	for _, tt := range tests {
		if got := RoundRate(tt.in); got != tt.want {
			t.Errorf("RoundRate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
