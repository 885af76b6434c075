package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/andreiashu/heartdash"
)

var barColor = color.RGBA{R: 52, G: 152, B: 219, A: 255}

// ErrEmptyChart is returned when there is nothing to plot.
var ErrEmptyChart = errors.New("render: no values to chart")

// CountsChart builds a distribution bar chart from value counts. The state
// chart is horizontal so its many labels stay readable; the others are
// vertical.
func CountsChart(dim heartdash.Dimension, counts []heartdash.Count) (*plot.Plot, error) {
	if len(counts) == 0 {
		return nil, ErrEmptyChart
	}
	horizontal := dim == heartdash.DimState

	n := len(counts)
	values := make(plotter.Values, n)
	labels := make([]string, n)
	for i, c := range counts {
		// Nominal axes start at the origin; flip so the largest bar is on top.
		j := i
		if horizontal {
			j = n - 1 - i
		}
		values[j] = float64(c.Count)
		labels[j] = c.Value
	}

	p := plot.New()
	p.Title.Text = chartTitle(dim)
	p.Title.TextStyle.Font.Size = vg.Points(16)

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	bars.Horizontal = horizontal
	p.Add(bars)

	if horizontal {
		p.NominalY(labels...)
		p.X.Label.Text = "Count"
		p.X.Min = 0
	} else {
		p.NominalX(labels...)
		p.Y.Label.Text = "Count"
		p.Y.Min = 0
	}
	return p, nil
}

// ChartSize returns a canvas size that fits n bars for dim.
func ChartSize(dim heartdash.Dimension, n int) (width, height vg.Length) {
	if dim == heartdash.DimState {
		height = vg.Length(n) * vg.Points(16)
		if height < 4*vg.Inch {
			height = 4 * vg.Inch
		}
		return 8 * vg.Inch, height
	}
	width = vg.Length(n) * vg.Inch
	if width < 6*vg.Inch {
		width = 6 * vg.Inch
	}
	return width, 5 * vg.Inch
}

// WritePNG encodes p as PNG to w.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// SaveChart writes p to path. The image format follows the file extension.
func SaveChart(p *plot.Plot, width, height vg.Length, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	return nil
}

func chartTitle(dim heartdash.Dimension) string {
	name := dim.String()
	return strings.ToUpper(name[:1]) + name[1:] + " Distribution"
}
