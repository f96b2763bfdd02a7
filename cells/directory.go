// Package cells reads a SQLite cell-site directory so circle markers can show
// where the serving cell is. The database is opened read-only and is expected
// to contain:
//
//	CREATE TABLE cellids (mnc INTEGER, cellid TEXT, address TEXT, latitude REAL, longitude REAL)
package cells

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
)

// Site is one row of the directory.
type Site struct {
	NetworkCode int
	CellID      string
	Address     string
	Latitude    float64
	Longitude   float64
}

// Directory answers cell id lookups against the SQLite file.
type Directory struct {
	db  *sql.DB
	log logging.Logger
}

// Open opens path read-only and checks that the cellids table is queryable.
func Open(path string, log logging.Logger) (*Directory, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeCellDirectory, "cell directory not found").WithDetail(path)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeCellDirectory, "cannot open cell directory").WithDetail(path)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cellids`).Scan(&n); err != nil {
		db.Close()
		return nil, apperr.Wrap(err, apperr.CodeCellDirectory, "cell directory has no cellids table").WithDetail(path)
	}
	log.Info("cell directory opened", logging.String("path", path), logging.Int("sites", n))
	return &Directory{db: db, log: log}, nil
}

func (d *Directory) Close() error { return d.db.Close() }

// Site returns the directory entry for a cell of a network. Cell ids are
// compared with and without dashes ("26201-1234" equals "262011234").
func (d *Directory) Site(networkCode int, cellID string) (Site, bool) {
	id := strings.TrimSpace(cellID)
	if id == "" {
		return Site{}, false
	}
	const q = `
        SELECT mnc, cellid, address, latitude, longitude
          FROM cellids
         WHERE mnc = ? AND (cellid = ? OR REPLACE(cellid, '-', '') = ?)
         LIMIT 1`
	var s Site
	err := d.db.QueryRow(q, networkCode, id, strings.ReplaceAll(id, "-", "")).
		Scan(&s.NetworkCode, &s.CellID, &s.Address, &s.Latitude, &s.Longitude)
	if err != nil {
		if err != sql.ErrNoRows {
			d.log.Warn("cell lookup failed", logging.String("cell_id", id), logging.Err(err))
		}
		return Site{}, false
	}
	return s, true
}

// Lookup returns the address of a cell; it satisfies dataset.CellLookup.
func (d *Directory) Lookup(networkCode int, cellID string) (string, bool) {
	s, ok := d.Site(networkCode, cellID)
	if !ok || s.Address == "" {
		return "", false
	}
	return s.Address, true
}
