// ABOUTME: PostgreSQL-backed Workbook using lib/pq.
// ABOUTME: Validates connection strings and shares table logic with the SQLite backend.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// ErrInvalidConnectionString is returned for an unusable Postgres DSN.
var ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")

// PostgresDB is a PostgreSQL-backed Workbook.
type PostgresDB struct {
	sqlBook
}

// Compile-time check that PostgresDB implements Workbook.
var _ Workbook = (*PostgresDB)(nil)

// OpenPostgres connects to the database described by connStr (URL or DSN).
func OpenPostgres(ctx context.Context, connStr string) (*PostgresDB, error) {
	if err := ValidateConnString(connStr); err != nil {
		return nil, err
	}

	connector, err := pq.NewConnector(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresDB{sqlBook: sqlBook{db: db, dialect: postgresDialect}}, nil
}

// ValidateConnString checks that connStr parses as a PostgreSQL URL or DSN.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	return nil
}
