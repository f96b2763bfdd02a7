package dataset

import (
	"strings"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
)

// field names used internally; the input file may label them differently.
const (
	fieldLatitude    = "latitude"
	fieldLongitude   = "longitude"
	fieldNetworkCode = "mnc"
	fieldRegion      = "region"
	fieldQuality     = "quality"
	fieldTimestamp   = "timestamp"
	fieldCellID      = "cell_id"
)

/* ──────────── header synonyms, first match wins ──────────── */

var headerAliases = map[string][]string{
	fieldLatitude:    {"Latitude", "Lat"},
	fieldLongitude:   {"Longitude", "Lon", "Lng", "Long"},
	fieldNetworkCode: {"MNC", "Network Code", "NetworkCode"},
	fieldRegion:      {"Region", "Stadt", "City", "Region Name"},
	fieldQuality:     {"RSRP", "SSS-RSRP", "Signal", "Signal Strength", "dBm", "Quality"},
	fieldTimestamp:   {"Timestamp", "Time", "Datetime", "Date"},
	fieldCellID:      {"Cell ID", "CellID", "CI", "ECI", "CGI"},
}

var requiredFields = []string{fieldLatitude, fieldLongitude, fieldNetworkCode, fieldRegion}

// norm lower-cases a header and drops everything but letters and digits, so
// "Lat.", "LAT" and " lat " compare equal.
func norm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// colIdx returns the index of the first header equal to key after norm, or -1.
func colIdx(header []string, key string) int {
	key = norm(key)
	for i, h := range header {
		if norm(h) == key {
			return i
		}
	}
	return -1
}

func colIdxAny(header []string, keys ...string) int {
	for _, k := range keys {
		if i := colIdx(header, k); i != -1 {
			return i
		}
	}
	return -1
}

// schema maps internal fields to column indexes; optional fields are -1 when absent.
type schema struct {
	latitude    int
	longitude   int
	networkCode int
	region      int
	quality     int
	timestamp   int
	cellID      int
}

func resolveSchema(header []string) (schema, error) {
	idx := make(map[string]int, len(headerAliases))
	for field, aliases := range headerAliases {
		idx[field] = colIdxAny(header, aliases...)
	}
	var missing []string
	for _, f := range requiredFields {
		if idx[f] == -1 {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return schema{}, apperr.New(apperr.CodeUnreadableFile, "dataset is missing required columns").
			WithDetail(strings.Join(missing, ", "))
	}
	return schema{
		latitude:    idx[fieldLatitude],
		longitude:   idx[fieldLongitude],
		networkCode: idx[fieldNetworkCode],
		region:      idx[fieldRegion],
		quality:     idx[fieldQuality],
		timestamp:   idx[fieldTimestamp],
		cellID:      idx[fieldCellID],
	}, nil
}

// pick returns the trimmed cell at idx, or "" when idx is out of range.
func pick(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
