package heatmap

import (
	"bytes"
	"errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/dataset"
)

// ErrNoPreview is returned when a table has too few rows to plot.
var ErrNoPreview = errors.New("heatmap: not enough rows for a preview")

// pointStyle renders points only. A zero StrokeWidth would fall back to the
// default width, so the line is disabled explicitly; StrokeColor still sets the
// legend swatch.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: col,
		DotWidth:    4,
		DotColor:    col,
	}
}

type band struct {
	name  string
	color drawing.Color
	xs    []float64
	ys    []float64
}

// Preview renders a PNG scatter of t (longitude on x, latitude on y) split
// into good, medium and poor quality thirds.
func Preview(t *dataset.Table, width, height int) ([]byte, error) {
	if t.Len() < 2 {
		return nil, ErrNoPreview
	}
	bands := []*band{
		{name: "gut", color: drawing.ColorFromHex("2e7d32")},
		{name: "mittel", color: drawing.ColorFromHex("f9a825")},
		{name: "schlecht", color: drawing.ColorFromHex("c62828")},
	}
	weights := Normalize(t)
	for i, m := range t.Rows {
		b := bands[2]
		switch {
		case weights[i] >= 2.0/3:
			b = bands[0]
		case weights[i] >= 1.0/3:
			b = bands[1]
		}
		b.xs = append(b.xs, m.Longitude)
		b.ys = append(b.ys, m.Latitude)
	}

	var series []chart.Series
	for _, b := range bands {
		if len(b.xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    b.name,
			XValues: b.xs,
			YValues: b.ys,
			Style:   pointStyle(b.color),
		})
	}

	xr, yr := bounds(t)
	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      chart.XAxis{Name: "Längengrad", Range: xr},
		YAxis:      chart.YAxis{Name: "Breitengrad", Range: yr},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeRenderFailed, "cannot render preview")
	}
	return buf.Bytes(), nil
}

// bounds pads the coordinate extent so a single location still has a
// non-zero axis range.
func bounds(t *dataset.Table) (*chart.ContinuousRange, *chart.ContinuousRange) {
	first := t.Rows[0]
	minX, maxX := first.Longitude, first.Longitude
	minY, maxY := first.Latitude, first.Latitude
	for _, m := range t.Rows[1:] {
		minX, maxX = min(minX, m.Longitude), max(maxX, m.Longitude)
		minY, maxY = min(minY, m.Latitude), max(maxY, m.Latitude)
	}
	const pad = 0.001
	return &chart.ContinuousRange{Min: minX - pad, Max: maxX + pad},
		&chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
}
