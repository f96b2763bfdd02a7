// Package heatmap writes the interactive Leaflet maps for a cleaned dataset
// and renders a small PNG preview of the same points.
package heatmap

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/catalog"
	"github.com/michaelf2104/InternetProviderVisualization/dataset"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
)

const (
	KindHeatmap       = "heatmap"
	KindCircleHeatmap = "circle_heatmap"
)

// Artifact describes one written map file.
type Artifact struct {
	Path string
	Kind string
	Rows int
}

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

type heatPage struct {
	Title  string
	Center catalog.Center
	Points template.JS
}

type circlePage struct {
	Title   string
	Center  catalog.Center
	Markers template.JS
}

type marker struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	Popup  string  `json:"popup"`
}

// Renderer writes both map kinds. The zero value is not usable; call
// NewRenderer.
type Renderer struct {
	log    logging.Logger
	region string
}

func NewRenderer(log logging.Logger) *Renderer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Renderer{log: log.Named("heatmap")}
}

// WithRegion returns a copy that centres empty maps on region.
func (r *Renderer) WithRegion(region string) *Renderer {
	cp := *r
	cp.region = region
	return &cp
}

// minHeatWeight keeps the worst row visible; leaflet.heat fades a zero weight
// to its minimum opacity.
const minHeatWeight = 0.1

func heatWeight(w float64) float64 { return minHeatWeight + (1-minHeatWeight)*w }

// GenerateHeatmap writes a density heatmap of t to path, each point weighted
// by its normalised quality.
func (r *Renderer) GenerateHeatmap(t *dataset.Table, path string) (Artifact, error) {
	weights := Normalize(t)
	points := make([][3]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		m := t.Rows[i]
		points = append(points, [3]float64{m.Latitude, m.Longitude, heatWeight(weights[i])})
	}
	js, err := marshalTemplateJS(points)
	if err != nil {
		return Artifact{}, apperr.Wrap(err, apperr.CodeRenderFailed, "cannot encode heatmap points").WithDetail(path)
	}
	page := heatPage{Title: "netzwerkanalyse heatmap", Center: r.center(), Points: js}
	return r.write("heatmap.html.tmpl", page, path, KindHeatmap, t.Len())
}

// GenerateCircleHeatmap writes one circle marker per row of t to path. Marker
// colour runs from red (worst) over yellow to green (best).
func (r *Renderer) GenerateCircleHeatmap(t *dataset.Table, path string) (Artifact, error) {
	weights := Normalize(t)
	markers := make([]marker, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		m := t.Rows[i]
		markers = append(markers, marker{
			Lat:    m.Latitude,
			Lon:    m.Longitude,
			Color:  ColorScale(weights[i]),
			Radius: 4 + 6*weights[i],
			Popup:  popup(m),
		})
	}
	js, err := marshalTemplateJS(markers)
	if err != nil {
		return Artifact{}, apperr.Wrap(err, apperr.CodeRenderFailed, "cannot encode circle markers").WithDetail(path)
	}
	page := circlePage{Title: "netzwerkanalyse circle heatmap", Center: r.center(), Markers: js}
	return r.write("circles.html.tmpl", page, path, KindCircleHeatmap, t.Len())
}

func (r *Renderer) write(name string, data any, path, kind string, rows int) (Artifact, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Artifact{}, apperr.Wrap(err, apperr.CodeRenderFailed, "cannot render map").WithDetail(path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Artifact{}, apperr.Wrap(err, apperr.CodeRenderFailed, "cannot create output directory").WithDetail(dir)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Artifact{}, apperr.Wrap(err, apperr.CodeRenderFailed, "cannot write map").WithDetail(path)
	}
	r.log.Info("map written", logging.String("kind", kind), logging.String("path", path), logging.Int("rows", rows))
	return Artifact{Path: path, Kind: kind, Rows: rows}, nil
}

func (r *Renderer) center() catalog.Center {
	if c, err := catalog.RegionCenter(r.region); err == nil {
		return c
	}
	return catalog.Germany
}

func popup(m dataset.Measurement) string {
	lines := []string{fmt.Sprintf("Netz: %d", m.NetworkCode)}
	if m.HasQuality {
		lines = append(lines, fmt.Sprintf("Qualität: %.1f", m.Quality))
	}
	if m.Timestamp != "" {
		lines = append(lines, "Zeit: "+template.HTMLEscapeString(m.Timestamp))
	}
	if m.Address != "" {
		lines = append(lines, "Zelle: "+template.HTMLEscapeString(m.Address))
	}
	return strings.Join(lines, "<br>")
}

// marshalTemplateJS encodes value as a JavaScript literal for a script block.
func marshalTemplateJS(value any) (template.JS, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return template.JS(""), err
	}
	return template.JS(payload), nil
}
