package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/michaelf2104/InternetProviderVisualization/logging"
)

// CellLookup resolves a cell id of a network to a human-readable site address.
type CellLookup interface {
	Lookup(networkCode int, cellID string) (address string, ok bool)
}

// Loader reads and cleans measurement datasets.
type Loader struct {
	log   logging.Logger
	cells CellLookup
}

func NewLoader(log logging.Logger) *Loader {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Loader{log: log}
}

// WithCells attaches a cell directory used to label rows that carry a cell id.
func (l *Loader) WithCells(c CellLookup) *Loader {
	l.cells = c
	return l
}

type loadStats struct {
	read, regionMatched, invalid, otherNetwork, duplicates int
}

// LoadAndClean reads path and returns the rows matching c: region equal to
// c.Region, network code in c.NetworkCodes, valid coordinates, no exact
// duplicates. Input order is preserved; an empty result is not an error.
func (l *Loader) LoadAndClean(path string, c Criteria) (*Table, error) {
	raw, err := readTable(path)
	if err != nil {
		return nil, err
	}
	sch, err := resolveSchema(raw.Header)
	if err != nil {
		return nil, unreadable(path, "unsupported dataset layout", err)
	}

	region := NormalizeRegion(c.Region)
	for _, rec := range raw.Rows {
		rec[sch.region] = NormalizeRegion(rec[sch.region])
	}

	stats := loadStats{read: len(raw.Rows)}
	matched, err := filterRegion(raw, sch.region, region)
	if err != nil {
		return nil, unreadable(path, "cannot filter dataset", err)
	}
	stats.regionMatched = len(matched)

	table := &Table{Source: path, Columns: raw.Header}
	seen := make(map[string]struct{}, len(matched))
	for _, rec := range matched {
		m, ok := parseRow(rec, sch)
		if !ok {
			stats.invalid++
			continue
		}
		if !c.Allows(m.NetworkCode) {
			stats.otherNetwork++
			continue
		}
		k := strings.Join(rec, "\x1f")
		if _, dup := seen[k]; dup {
			stats.duplicates++
			continue
		}
		seen[k] = struct{}{}
		if l.cells != nil && m.CellID != "" {
			if addr, ok := l.cells.Lookup(m.NetworkCode, m.CellID); ok {
				m.Address = addr
			}
		}
		table.Rows = append(table.Rows, m)
	}

	l.log.Info("dataset cleaned",
		logging.String("path", path),
		logging.String("encoding", raw.Encoding),
		logging.String("region", region),
		logging.Any("network_codes", c.NetworkCodes),
		logging.Int("read", stats.read),
		logging.Int("region_matched", stats.regionMatched),
		logging.Int("invalid", stats.invalid),
		logging.Int("other_network", stats.otherNetwork),
		logging.Int("duplicates", stats.duplicates),
		logging.Int("kept", len(table.Rows)),
	)
	return table, nil
}

// filterRegion keeps the rows whose region column equals region, using a
// string-typed dataframe so no cell is reinterpreted.
func filterRegion(raw *rawTable, regionCol int, region string) ([][]string, error) {
	if len(raw.Rows) == 0 {
		return nil, nil
	}
	records := make([][]string, 0, len(raw.Rows)+1)
	records = append(records, positionalHeader(len(raw.Header)))
	records = append(records, raw.Rows...)

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	df = df.Filter(dataframe.F{
		Colname:    "c" + strconv.Itoa(regionCol),
		Comparator: series.Eq,
		Comparando: region,
	})
	if df.Err != nil {
		return nil, df.Err
	}
	out := df.Records()
	if len(out) <= 1 {
		return nil, nil
	}
	return out[1:], nil
}

// positionalHeader names columns c0..cN so duplicate or blank headers in the
// input cannot collide inside the dataframe.
func positionalHeader(n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = "c" + strconv.Itoa(i)
	}
	return h
}

func parseRow(rec []string, sch schema) (Measurement, bool) {
	lat, ok := parseNumber(pick(rec, sch.latitude))
	if !ok || lat < -90 || lat > 90 {
		return Measurement{}, false
	}
	lon, ok := parseNumber(pick(rec, sch.longitude))
	if !ok || lon < -180 || lon > 180 {
		return Measurement{}, false
	}
	code, ok := parseNumber(pick(rec, sch.networkCode))
	if !ok || code != math.Trunc(code) || code < 0 {
		return Measurement{}, false
	}
	m := Measurement{
		Latitude:    lat,
		Longitude:   lon,
		NetworkCode: int(code),
		Region:      pick(rec, sch.region),
		Timestamp:   pick(rec, sch.timestamp),
		CellID:      pick(rec, sch.cellID),
		Record:      append([]string(nil), rec...),
	}
	if q, ok := parseNumber(pick(rec, sch.quality)); ok {
		m.Quality, m.HasQuality = q, true
	}
	return m, true
}

// parseNumber accepts a decimal comma ("48,137") when the value has no dot.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
