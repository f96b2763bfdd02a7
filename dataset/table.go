// Package dataset loads measurement files, cleans them against the selected
// provider and region, and diffs a new dataset against a previous one.
package dataset

import (
	"fmt"
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

// Criteria is the filter read from the UI for one drop event.
type Criteria struct {
	Region       string
	NetworkCodes []int
}

// Allows reports whether code is one of the criteria's network codes.
func (c Criteria) Allows(code int) bool {
	for _, n := range c.NetworkCodes {
		if n == code {
			return true
		}
	}
	return false
}

// Measurement is one cleaned measurement row.
type Measurement struct {
	Latitude    float64
	Longitude   float64
	NetworkCode int
	Region      string
	Quality     float64
	HasQuality  bool
	Timestamp   string
	CellID      string
	// Address is filled from the cell directory when one is attached.
	Address string
	// Record is the original row, aligned with Table.Columns.
	Record []string
}

// Key identifies a measurement across datasets: network code, coordinates
// rounded to six decimals (about 0.1 m) and timestamp.
func (m Measurement) Key() string {
	return fmt.Sprintf("%d|%.6f|%.6f|%s", m.NetworkCode, m.Latitude, m.Longitude, m.Timestamp)
}

// Table is an ordered set of cleaned rows. Loader output satisfies the
// criteria it was loaded with; Differ output is a subset of its new table.
type Table struct {
	Source  string
	Columns []string
	Rows    []Measurement
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool { return t.Len() == 0 }

// QualityRange returns min and max quality over rows that carry one.
func (t *Table) QualityRange() (lo, hi float64, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	for _, r := range t.Rows {
		if !r.HasQuality {
			continue
		}
		if !ok {
			lo, hi, ok = r.Quality, r.Quality, true
			continue
		}
		if r.Quality < lo {
			lo = r.Quality
		}
		if r.Quality > hi {
			hi = r.Quality
		}
	}
	return lo, hi, ok
}

// NormalizeRegion trims and NFC-normalises a region label so a decomposed
// "München" from one export equals the composed form from the catalog.
func NormalizeRegion(s string) string {
	return unorm.NFC.String(strings.TrimSpace(s))
}
