package heartdash

import "gonum.org/v1/gonum/stat"

// Lookup is the result of a point rate query.
type Lookup struct {
	Rate    float64 `json:"rate"`    // mean rounded to 2 decimal places
	Exact   float64 `json:"exact"`   // mean at full precision
	Matches int     `json:"matches"` // number of records averaged
}

// PointRate returns the mean rate over records whose state, county, gender
// and ethnicity all equal the arguments exactly (case-sensitive).
//
// When no record matches it returns a *NoMatchError rather than a NaN mean.
func (t *Table) PointRate(state, county, gender, ethnicity string) (Lookup, error) {
	var rates []float64
	for _, r := range t.records {
		if r.State == state && r.County == county && r.Gender == gender && r.Ethnicity == ethnicity {
			rates = append(rates, r.Rate)
		}
	}
	if len(rates) == 0 {
		return Lookup{}, &NoMatchError{State: state, County: county, Gender: gender, Ethnicity: ethnicity}
	}

	mean := stat.Mean(rates, nil)
	return Lookup{Rate: RoundRate(mean), Exact: mean, Matches: len(rates)}, nil
}
