package heartdash

import "math"

// BelowThreshold returns the locations of every record whose rate is strictly
// below threshold, in table order. Unmapped locations are included as-is.
func (t *Table) BelowThreshold(threshold float64) []Location {
	out := make([]Location, 0)
	for _, r := range t.records {
		if r.Rate < threshold {
			out = append(out, r.Location)
		}
	}
	return out
}

// RateRange returns the smallest and largest rate in the table, or (0, 0)
// for an empty table.
func (t *Table) RateRange() (min, max float64) {
	return t.minRate, t.maxRate
}

// ClampThreshold limits a slider value to the table's closed rate range.
// NaN clamps to the minimum.
func (t *Table) ClampThreshold(v float64) float64 {
	if math.IsNaN(v) || v < t.minRate {
		return t.minRate
	}
	if v > t.maxRate {
		return t.maxRate
	}
	return v
}
