package heartdash

import "sort"

// Count is the number of records sharing one value of a dimension.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts groups the table by dim and counts records per value, most
// frequent first. Equal counts keep first-occurrence order.
func (t *Table) ValueCounts(dim Dimension) []Count {
	idx := make(map[string]int)
	out := make([]Count, 0)
	for _, r := range t.records {
		v := r.Value(dim)
		i, ok := idx[v]
		if !ok {
			i = len(out)
			idx[v] = i
			out = append(out, Count{Value: v})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
