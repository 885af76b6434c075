package heartdash

import (
	"sort"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// Geohash precision bounds accepted by ClusterLocations.
const (
	MinGeohashPrecision = 1
	MaxGeohashPrecision = 12
)

// Cluster is a group of map points sharing a geohash cell.
type Cluster struct {
	Hash   string   `json:"hash"`
	Center Location `json:"center"`
	Count  int      `json:"count"`
}

// ClusterLocations buckets points by geohash at the given precision, which is
// clamped to [MinGeohashPrecision, MaxGeohashPrecision]. Unmapped points are
// skipped. Clusters are ordered by count descending, then hash.
func ClusterLocations(points []Location, precision int) []Cluster {
	if precision < MinGeohashPrecision {
		precision = MinGeohashPrecision
	}
	if precision > MaxGeohashPrecision {
		precision = MaxGeohashPrecision
	}

	idx := make(map[string]int)
	out := make([]Cluster, 0)
	for _, p := range points {
		if !p.Valid {
			continue
		}
		h := geohash.EncodeWithPrecision(p.Lat, p.Lon, precision)
		i, ok := idx[h]
		if !ok {
			center := geohash.Decode(h).Center()
			i = len(out)
			idx[h] = i
			out = append(out, Cluster{
				Hash:   h,
				Center: Location{Lat: center.Lat(), Lon: center.Lng(), Valid: true},
			})
		}
		out[i].Count++
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Hash < out[j].Hash
	})
	return out
}
