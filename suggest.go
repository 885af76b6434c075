package heartdash

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance caps the edit distance SuggestCounties will consider.
const maxSuggestDistance = 3

// SuggestCounties returns county names within maxDist edits of name
// (case-insensitive), closest first, ties in table order. A non-empty state
// restricts candidates to that state. maxDist is clamped to [1, 3].
func (t *Table) SuggestCounties(state, name string, maxDist int) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	if maxDist < 1 {
		maxDist = 1
	}
	if maxDist > maxSuggestDistance {
		maxDist = maxSuggestDistance
	}

	type candidate struct {
		county string
		dist   int
	}
	var candidates []candidate
	seen := make(map[string]bool)
	for _, r := range t.records {
		if state != "" && r.State != state {
			continue
		}
		if seen[r.County] {
			continue
		}
		seen[r.County] = true
		dist := levenshtein.ComputeDistance(name, strings.ToLower(r.County))
		if dist <= maxDist {
			candidates = append(candidates, candidate{r.County, dist})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.county
	}
	return out
}
