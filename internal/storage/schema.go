// ABOUTME: SQL dialects and DDL for sheet tables.
// ABOUTME: Each sheet is a table of TEXT columns ordered by an auto-increment row_id.
package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// rowIDColumn orders rows by insertion and is hidden from Rows.
const rowIDColumn = "row_id"

// dialect captures the SQL differences between SQLite and Postgres.
type dialect struct {
	name        string
	rowIDDecl   string
	tableExists string
	placeholder func(n int) string
}

var sqliteDialect = dialect{
	name:        "sqlite",
	rowIDDecl:   rowIDColumn + " INTEGER PRIMARY KEY AUTOINCREMENT",
	tableExists: `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
	placeholder: func(int) string { return "?" },
}

var postgresDialect = dialect{
	name:        "postgres",
	rowIDDecl:   rowIDColumn + " BIGSERIAL PRIMARY KEY",
	tableExists: `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`,
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// quoteIdent quotes a validated identifier.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// createTableSQL returns the DDL for a sheet table with the given columns.
func (d dialect) createTableSQL(table string, columns []string) string {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, d.rowIDDecl)
	for _, c := range columns {
		defs = append(defs, quoteIdent(c)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quoteIdent(table), strings.Join(defs, ",\n\t"))
}

// insertSQL returns a parameterised INSERT for the given columns.
func (d dialect) insertSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c)
		params[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// selectSQL returns a SELECT of the given columns in insertion order.
func (d dialect) selectSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC",
		strings.Join(cols, ", "), quoteIdent(table), rowIDColumn)
}
