package heartdash

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// s2CellLevel sets the granularity of the nearest-record index. Level 6
// cells are roughly 60 to 150km across.
const s2CellLevel = 6

// earthRadiusKm converts S2 angles on the unit sphere to kilometres.
const earthRadiusKm = 6371.0088

// maxNearestKm is the cut-off beyond which Nearest reports no match.
const maxNearestKm = 100.0

// buildCellIndex indexes every located record by its S2 cell.
func (t *Table) buildCellIndex() {
	t.cellIndex = make(map[s2.CellID][]int)
	for i, r := range t.records {
		if !r.Location.Valid {
			continue
		}
		cell := s2.CellIDFromLatLng(r.Location.latLng()).Parent(s2CellLevel)
		t.cellIndex[cell] = append(t.cellIndex[cell], i)
	}
}

// searchCells returns the index cells that intersect the cap of radius
// maxNearestKm around q.
func searchCells(q s2.LatLng) s2.CellUnion {
	rc := &s2.RegionCoverer{MinLevel: s2CellLevel, MaxLevel: s2CellLevel, LevelMod: 1, MaxCells: 64}
	return rc.Covering(s2.CapFromCenterAngle(s2.PointFromLatLng(q), s1.Angle(maxNearestKm/earthRadiusKm)))
}

// Nearest returns the located record closest to (lat, lon). Records sharing
// the closest point resolve to the earliest in table order. It reports false
// for invalid coordinates or when nothing lies within 100km.
func (t *Table) Nearest(lat, lon float64) (Record, bool) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return Record{}, false
	}
	q := s2.LatLngFromDegrees(lat, lon)
	if !q.IsValid() {
		return Record{}, false
	}

	best, bestDist := -1, math.Inf(1)
	for _, cell := range searchCells(q) {
		for _, idx := range t.cellIndex[cell] {
			d := float64(q.Distance(t.records[idx].Location.latLng()))
			if d < bestDist || (d == bestDist && idx < best) {
				best, bestDist = idx, d
			}
		}
	}
	if best < 0 || bestDist*earthRadiusKm > maxNearestKm {
		return Record{}, false
	}
	return t.records[best], true
}

// DistanceKm returns the great-circle distance between two valid locations.
func DistanceKm(a, b Location) float64 {
	return float64(a.latLng().Distance(b.latLng())) * earthRadiusKm
}
