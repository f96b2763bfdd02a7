package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
)

// WriteWorkbook saves t as an xlsx file with a "report" sheet holding the
// original rows and a "summary" sheet with per-network counts and quality.
// An existing file at path is overwritten.
func WriteWorkbook(t *Table, path string) error {
	report := [][]string{reportHeader(t)}
	withAddress := hasAddress(t)
	if t != nil {
		for _, r := range t.Rows {
			row := append([]string(nil), r.Record...)
			if withAddress {
				row = append(row, r.Address)
			}
			report = append(report, row)
		}
	}

	x := excelize.NewFile()
	defer x.Close()
	add := func(name string, rows [][]string) error {
		idx, err := x.NewSheet(name)
		if err != nil {
			return err
		}
		for r, row := range rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				if err := x.SetCellStr(name, cell, v); err != nil {
					return err
				}
			}
		}
		if name == "report" {
			x.SetActiveSheet(idx)
		}
		return nil
	}
	if err := add("report", report); err != nil {
		return apperr.Wrap(err, apperr.CodeExportFailed, "build report sheet").WithDetail(path)
	}
	if err := add("summary", summarize(t)); err != nil {
		return apperr.Wrap(err, apperr.CodeExportFailed, "build summary sheet").WithDetail(path)
	}
	if err := x.DeleteSheet("Sheet1"); err != nil {
		return apperr.Wrap(err, apperr.CodeExportFailed, "drop default sheet").WithDetail(path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.Wrap(err, apperr.CodeExportFailed, "create output directory").WithDetail(dir)
		}
	}
	if err := x.SaveAs(path); err != nil {
		return apperr.Wrap(err, apperr.CodeExportFailed, "save workbook").WithDetail(path)
	}
	return nil
}

func reportHeader(t *Table) []string {
	if t == nil {
		return nil
	}
	h := append([]string(nil), t.Columns...)
	if hasAddress(t) {
		h = append(h, "Cell Address")
	}
	return h
}

func hasAddress(t *Table) bool {
	if t == nil {
		return false
	}
	for _, r := range t.Rows {
		if r.Address != "" {
			return true
		}
	}
	return false
}

// summarize aggregates rows per network code, ordered by code.
func summarize(t *Table) [][]string {
	type agg struct {
		rows, withQuality int
		sum, min, max     float64
	}
	byCode := map[int]*agg{}
	if t != nil {
		for _, r := range t.Rows {
			a := byCode[r.NetworkCode]
			if a == nil {
				a = &agg{}
				byCode[r.NetworkCode] = a
			}
			a.rows++
			if !r.HasQuality {
				continue
			}
			if a.withQuality == 0 || r.Quality < a.min {
				a.min = r.Quality
			}
			if a.withQuality == 0 || r.Quality > a.max {
				a.max = r.Quality
			}
			a.withQuality++
			a.sum += r.Quality
		}
	}

	codes := make([]int, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	out := [][]string{{"Network Code", "Rows", "Min Quality", "Avg Quality", "Max Quality"}}
	for _, c := range codes {
		a := byCode[c]
		minQ, avgQ, maxQ := "", "", ""
		if a.withQuality > 0 {
			minQ = fmt.Sprintf("%.1f", a.min)
			avgQ = fmt.Sprintf("%.1f", a.sum/float64(a.withQuality))
			maxQ = fmt.Sprintf("%.1f", a.max)
		}
		out = append(out, []string{strconv.Itoa(c), strconv.Itoa(a.rows), minQ, avgQ, maxQ})
	}
	return out
}
