package heartdash

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GroupStats holds descriptive statistics of the rates in one group.
type GroupStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // sample standard deviation, 0 for a single record
	Min    float64 `json:"min"`
	Median float64 `json:"median"` // lower median for even counts
	Max    float64 `json:"max"`
}

// Summary describes the rates of the whole table under the group name "all".
func (t *Table) Summary() GroupStats {
	rates := make([]float64, len(t.records))
	for i, r := range t.records {
		rates[i] = r.Rate
	}
	return describe("all", rates)
}

// Describe returns per-value statistics for dim, groups in first-occurrence
// order.
func (t *Table) Describe(dim Dimension) []GroupStats {
	idx := make(map[string]int)
	var groups []string
	var rates [][]float64
	for _, r := range t.records {
		v := r.Value(dim)
		i, ok := idx[v]
		if !ok {
			i = len(groups)
			idx[v] = i
			groups = append(groups, v)
			rates = append(rates, nil)
		}
		rates[i] = append(rates[i], r.Rate)
	}

	out := make([]GroupStats, len(groups))
	for i, g := range groups {
		out[i] = describe(g, rates[i])
	}
	return out
}

func describe(group string, rates []float64) GroupStats {
	gs := GroupStats{Group: group, Count: len(rates)}
	if len(rates) == 0 {
		return gs
	}

	sorted := make([]float64, len(rates))
	copy(sorted, rates)
	sort.Float64s(sorted)

	gs.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		gs.StdDev = stat.StdDev(sorted, nil)
	}
	gs.Min = sorted[0]
	gs.Max = sorted[len(sorted)-1]
	gs.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return gs
}
