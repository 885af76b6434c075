package heartdash

import "fmt"

// Dimension is one of the categorical selection dimensions.
type Dimension int

// Dimensions in cascade order: each one's domain depends on the ones before.
const (
	DimState Dimension = iota
	DimCounty
	DimGender
	DimEthnicity
)

var dimensionNames = [...]string{
	DimState:     ColumnState,
	DimCounty:    ColumnCounty,
	DimGender:    ColumnGender,
	DimEthnicity: ColumnEthnicity,
}

func (d Dimension) String() string {
	if d < 0 || int(d) >= len(dimensionNames) {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// MarshalText encodes the dimension by name.
func (d Dimension) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= len(dimensionNames) {
		return nil, fmt.Errorf("invalid dimension %d", int(d))
	}
	return []byte(dimensionNames[d]), nil
}

// UnmarshalText decodes a dimension name.
func (d *Dimension) UnmarshalText(b []byte) error {
	v, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDimension resolves a dimension name such as "state".
func ParseDimension(s string) (Dimension, error) {
	for i, name := range dimensionNames {
		if s == name {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q (want state, county, gender or ethnicity)", s)
}

// Value returns the record's value for dimension d.
func (r Record) Value(d Dimension) string {
	switch d {
	case DimState:
		return r.State
	case DimCounty:
		return r.County
	case DimGender:
		return r.Gender
	case DimEthnicity:
		return r.Ethnicity
	}
	return ""
}

// Selection is a partial assignment of the upstream selectors. An empty
// field is unassigned.
type Selection struct {
	State  string
	County string
	Gender string
}

// Next returns the first unassigned dimension in cascade order. With state,
// county and gender all assigned it is DimEthnicity.
func (s Selection) Next() Dimension {
	switch {
	case s.State == "":
		return DimState
	case s.County == "":
		return DimCounty
	case s.Gender == "":
		return DimGender
	default:
		return DimEthnicity
	}
}

func (s Selection) matches(r Record) bool {
	return (s.State == "" || r.State == s.State) &&
		(s.County == "" || r.County == s.County) &&
		(s.Gender == "" || r.Gender == s.Gender)
}

// Domain is the set of valid choices for a dimension.
type Domain struct {
	Dimension Dimension `json:"dimension"`
	Values    []string  `json:"values"`
}

// Domain returns the distinct values of sel.Next() among records matching
// every assigned field of sel, in first-occurrence order. When nothing
// matches, Values is empty.
func (t *Table) Domain(sel Selection) Domain {
	dim := sel.Next()
	d := Domain{Dimension: dim, Values: []string{}}
	seen := make(map[string]struct{})
	for _, r := range t.records {
		if !sel.matches(r) {
			continue
		}
		v := r.Value(dim)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		d.Values = append(d.Values, v)
	}
	return d
}
