package heatmap

import (
	"fmt"
	"math"

	"github.com/michaelf2104/InternetProviderVisualization/dataset"
)

// Normalize maps each row's quality onto [0,1] by min-max over the rows that
// carry a quality. If all of them are equal every such row gets 1; rows
// without a quality get 0.5.
func Normalize(t *dataset.Table) []float64 {
	out := make([]float64, t.Len())
	lo, hi, ok := t.QualityRange()
	for i := range out {
		m := t.Rows[i]
		switch {
		case !ok || !m.HasQuality:
			out[i] = 0.5
		case hi == lo:
			out[i] = 1
		default:
			out[i] = (m.Quality - lo) / (hi - lo)
		}
	}
	return out
}

// ColorScale returns a hex colour for v in [0,1]: red at 0, yellow at 0.5,
// green at 1. Values outside the range are clamped.
func ColorScale(v float64) string {
	r, g, b := rgb(v)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func rgb(v float64) (uint8, uint8, uint8) {
	if math.IsNaN(v) {
		v = 0.5
	}
	v = math.Max(0, math.Min(1, v))
	if v < 0.5 {
		return 255, uint8(math.Round(510 * v)), 0
	}
	return uint8(math.Round(510 * (1 - v))), 255, 0
}
