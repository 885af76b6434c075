package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/andreiashu/heartdash"
)

// FormatRate prints a rate rounded to 2 decimal places.
func FormatRate(v float64) string {
	return strconv.FormatFloat(heartdash.RoundRate(v), 'f', 2, 64)
}

// FormatLocation prints "lat, lon" or "-" for an unmapped location.
func FormatLocation(l heartdash.Location) string {
	if !l.Valid {
		return "-"
	}
	return fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lon)
}

// Ranking renders a top-N ranking, emphasising the column the ranking names.
func Ranking(w io.Writer, rk heartdash.Ranking) error {
	cols := []Column{
		{Header: "#", Align: AlignRight},
		{Header: heartdash.ColumnState},
		{Header: heartdash.ColumnCounty},
		{Header: heartdash.ColumnRate, Align: AlignRight},
		{Header: heartdash.ColumnGender},
		{Header: heartdash.ColumnEthnicity},
		{Header: "location"},
	}
	for i := range cols {
		if cols[i].Header == rk.HighlightColumn {
			cols[i].Color = Highlight
		}
	}
	tbl := NewTable(cols...)
	for _, r := range rk.Rows {
		tbl.AddRow(
			strconv.Itoa(r.Rank),
			r.State,
			r.County,
			FormatRate(r.Rate),
			r.Gender,
			r.Ethnicity,
			FormatLocation(r.Location),
		)
	}
	return tbl.Render(w)
}

// Domain renders the choices for the next selector, one per line.
func Domain(w io.Writer, d heartdash.Domain) error {
	tbl := NewTable(Column{Header: d.Dimension.String()})
	for _, v := range d.Values {
		if d.Dimension == heartdash.DimState {
			v = fmt.Sprintf("%s (%s)", v, heartdash.StateName(v))
		}
		tbl.AddRow(v)
	}
	return tbl.Render(w)
}

// Counts renders value counts with each value's share of the total.
func Counts(w io.Writer, dim heartdash.Dimension, counts []heartdash.Count) error {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	tbl := NewTable(
		Column{Header: dim.String()},
		Column{Header: "count", Align: AlignRight},
		Column{Header: "share", Align: AlignRight},
	)
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = 100 * float64(c.Count) / float64(total)
		}
		tbl.AddRow(c.Value, strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", share))
	}
	return tbl.Render(w)
}

// Stats renders descriptive statistics, one group per row.
func Stats(w io.Writer, header string, groups []heartdash.GroupStats) error {
	tbl := NewTable(
		Column{Header: header},
		Column{Header: "count", Align: AlignRight},
		Column{Header: "mean", Align: AlignRight},
		Column{Header: "std", Align: AlignRight},
		Column{Header: "min", Align: AlignRight},
		Column{Header: "median", Align: AlignRight},
		Column{Header: "max", Align: AlignRight},
	)
	for _, g := range groups {
		tbl.AddRow(
			g.Group,
			strconv.Itoa(g.Count),
			FormatRate(g.Mean),
			FormatRate(g.StdDev),
			FormatRate(g.Min),
			FormatRate(g.Median),
			FormatRate(g.Max),
		)
	}
	return tbl.Render(w)
}

// Locations renders the map points below a threshold.
func Locations(w io.Writer, locs []heartdash.Location) error {
	dimMissing := func(v string) string {
		if v == "-" {
			return Dim(v)
		}
		return v
	}
	tbl := NewTable(
		Column{Header: heartdash.ColumnLat, Align: AlignRight, Color: dimMissing},
		Column{Header: heartdash.ColumnLon, Align: AlignRight, Color: dimMissing},
	)
	for _, l := range locs {
		if !l.Valid {
			tbl.AddRow("-", "-")
			continue
		}
		tbl.AddRow(
			strconv.FormatFloat(l.Lat, 'f', 4, 64),
			strconv.FormatFloat(l.Lon, 'f', 4, 64),
		)
	}
	return tbl.Render(w)
}

// Clusters renders geohash clusters, densest first.
func Clusters(w io.Writer, clusters []heartdash.Cluster) error {
	tbl := NewTable(
		Column{Header: "geohash"},
		Column{Header: "center"},
		Column{Header: "points", Align: AlignRight},
	)
	for _, c := range clusters {
		tbl.AddRow(c.Hash, FormatLocation(c.Center), strconv.Itoa(c.Count))
	}
	return tbl.Render(w)
}
