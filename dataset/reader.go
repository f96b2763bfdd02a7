package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rawTable is a file read into a rectangular header + rows grid.
type rawTable struct {
	Header   []string
	Rows     [][]string
	Encoding string
}

func unreadable(path, msg string, cause error) error {
	return apperr.Wrap(cause, apperr.CodeUnreadableFile, msg).WithDetail(path)
}

// readTable reads a CSV or XLSX file. Every returned row has exactly
// len(Header) cells.
func readTable(path string) (*rawTable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, unreadable(path, "cannot open dataset", err)
	}
	if info.IsDir() {
		return nil, apperr.New(apperr.CodeUnreadableFile, "dataset path is a directory").WithDetail(path)
	}

	var t *rawTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		t, err = readWorkbook(path)
	default:
		t, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(t.Header) == 0 {
		return nil, apperr.New(apperr.CodeUnreadableFile, "dataset has no header row").WithDetail(path)
	}
	t.Rows = rectangular(t.Rows, len(t.Header))
	return t, nil
}

func readCSV(path string) (*rawTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, unreadable(path, "cannot read dataset", err)
	}
	text, encoding, err := decodeText(raw)
	if err != nil {
		return nil, unreadable(path, "cannot decode dataset", err)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unreadable(path, "dataset is not valid CSV", err)
		}
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, apperr.New(apperr.CodeUnreadableFile, "dataset is empty").WithDetail(path)
	}
	return &rawTable{Header: trimAll(records[0]), Rows: records[1:], Encoding: encoding}, nil
}

// readWorkbook loads the first sheet of an Excel workbook.
func readWorkbook(path string) (*rawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, unreadable(path, "cannot open workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, apperr.New(apperr.CodeUnreadableFile, "workbook has no sheets").WithDetail(path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, unreadable(path, "cannot read workbook rows", err)
	}
	var records [][]string
	for _, rec := range rows {
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, apperr.New(apperr.CodeUnreadableFile, "workbook is empty").WithDetail(path)
	}
	return &rawTable{Header: trimAll(records[0]), Rows: records[1:], Encoding: "xlsx"}, nil
}

// decodeText returns the file as UTF-8. Exports from German tooling are often
// Windows-1252, which is tried when the bytes are not valid UTF-8.
func decodeText(raw []byte) (string, string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	text, err := charmap.Windows1252.NewDecoder().String(string(raw))
	if err != nil {
		return "", "", err
	}
	return text, "windows-1252", nil
}

// sniffDelimiter picks the most frequent of ';', ',' and tab in the first line.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{';', ',', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// rectangular pads short rows and truncates long ones to width.
func rectangular(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, rec := range rows {
		switch {
		case len(rec) < width:
			padded := make([]string, width)
			copy(padded, rec)
			rec = padded
		case len(rec) > width:
			rec = rec[:width]
		}
		out = append(out, rec)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
