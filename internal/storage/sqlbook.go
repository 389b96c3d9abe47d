// ABOUTME: Workbook implementation shared by the SQLite and Postgres backends.
// ABOUTME: Sheets are tables; the header row is synthesised from column names.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/workoutlog/internal/models"
)

// sqlBook is a Workbook over a database/sql connection.
type sqlBook struct {
	db      *sql.DB
	dialect dialect
}

func (b *sqlBook) Sheet(ctx context.Context, name string) (Sheet, error) {
	if !validIdent(name) {
		return nil, fmt.Errorf("invalid sheet name %q", name)
	}

	var n int
	if err := b.db.QueryRowContext(ctx, b.dialect.tableExists, name).Scan(&n); err != nil {
		return nil, fmt.Errorf("look up sheet %s: %w", name, err)
	}
	if n == 0 {
		return nil, ErrSheetNotFound
	}

	columns, err := b.columns(ctx, name)
	if err != nil {
		return nil, err
	}
	return &sqlSheet{book: b, table: name, columns: columns}, nil
}

func (b *sqlBook) CreateSheet(ctx context.Context, name string, header Row) error {
	if !validIdent(name) {
		return fmt.Errorf("invalid sheet name %q", name)
	}

	columns := make([]string, len(header))
	for i, cell := range header {
		col := models.CellText(cell)
		if !validIdent(col) || col == rowIDColumn {
			return fmt.Errorf("invalid column name %q", col)
		}
		columns[i] = col
	}

	if _, err := b.db.ExecContext(ctx, b.dialect.createTableSQL(name, columns)); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

func (b *sqlBook) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// columns lists the table's columns in declaration order, minus row_id.
func (b *sqlBook) columns(ctx context.Context, table string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	defer rows.Close()

	all, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}

	columns := make([]string, 0, len(all))
	for _, c := range all {
		if c != rowIDColumn {
			columns = append(columns, c)
		}
	}
	return columns, rows.Err()
}

// sqlSheet is one table of a sqlBook.
type sqlSheet struct {
	book    *sqlBook
	table   string
	columns []string
}

func (s *sqlSheet) AppendRow(ctx context.Context, row Row) error {
	args := make([]any, len(s.columns))
	for i := range s.columns {
		if i < len(row) {
			args[i] = models.CellText(row[i])
		} else {
			args[i] = ""
		}
	}

	_, err := s.book.db.ExecContext(ctx, s.book.dialect.insertSQL(s.table, s.columns), args...)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return nil
}

func (s *sqlSheet) Rows(ctx context.Context) ([]Row, error) {
	header := make(Row, len(s.columns))
	for i, c := range s.columns {
		header[i] = c
	}
	out := []Row{header}

	rows, err := s.book.db.QueryContext(ctx, s.book.dialect.selectSQL(s.table, s.columns))
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", s.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		cells := make([]sql.NullString, len(s.columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", s.table, err)
		}

		row := make(Row, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
