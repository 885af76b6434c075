package heartdash

import "sort"

// DefaultTopN is the ranking size the dashboard shows.
const DefaultTopN = 20

// Ranked is a record annotated with its 1-based position in a ranking.
type Ranked struct {
	Rank int `json:"rank"`
	Record
}

// Ranking is an ordered top-N result. HighlightColumn names the column a
// renderer should emphasise in every row.
type Ranking struct {
	Rows            []Ranked `json:"rows"`
	HighlightColumn string   `json:"highlight_column"`
}

// TopN returns the n records with the highest rate, descending. Ties keep
// table order. n <= 0 yields no rows; n larger than the table yields all.
func (t *Table) TopN(n int) Ranking {
	rk := Ranking{Rows: []Ranked{}, HighlightColumn: ColumnRate}
	if n <= 0 || len(t.records) == 0 {
		return rk
	}

	order := make([]int, len(t.records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return t.records[order[i]].Rate > t.records[order[j]].Rate
	})

	if n > len(order) {
		n = len(order)
	}
	rk.Rows = make([]Ranked, n)
	for i := 0; i < n; i++ {
		rk.Rows[i] = Ranked{Rank: i + 1, Record: t.records[order[i]]}
	}
	return rk
}
