// ABOUTME: Workbook and Sheet interfaces for tabular record storage.
// ABOUTME: Every backend (SQLite, Postgres, Google Sheets, Charm KV, memory) implements these.
package storage

import (
	"context"
	"errors"
	"regexp"

	"github.com/harperreed/workoutlog/internal/models"
)

// DefaultSheetName is the sheet records are written to unless configured otherwise.
const DefaultSheetName = "records"

// ErrSheetNotFound is returned when the named sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Row is one line of a sheet. Cells are strings or float64.
type Row []any

// Workbook is a collection of named sheets.
type Workbook interface {
	// Sheet returns the named sheet or ErrSheetNotFound.
	Sheet(ctx context.Context, name string) (Sheet, error)
	// CreateSheet creates the named sheet and writes header as its first row.
	// Creating a sheet that already exists is not an error.
	CreateSheet(ctx context.Context, name string, header Row) error
	Close() error
}

// Sheet is an append-only table of rows.
type Sheet interface {
	AppendRow(ctx context.Context, row Row) error
	// Rows returns every row in insertion order, header first.
	Rows(ctx context.Context) ([]Row, error)
}

// HeaderRow returns the column names as a header row.
func HeaderRow() Row {
	row := make(Row, len(models.Columns))
	for i, c := range models.Columns {
		row[i] = c
	}
	return row
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdent reports whether name is safe to use as a SQL table name.
func validIdent(name string) bool {
	return identRE.MatchString(name)
}
