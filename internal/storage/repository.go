// ABOUTME: Repository interface for workout records and its sheet-backed implementation.
// ABOUTME: Stamps created_at on append and skips the header row on read.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

// Repository defines the storage interface for workout records.
// Records are append-only: there is no update or delete.
type Repository interface {
	// Append stores r as a new row, setting CreatedAt to the current time.
	Append(ctx context.Context, r *models.Record) error
	// QueryAll returns every record in storage order.
	QueryAll(ctx context.Context) ([]*models.Record, error)
	// Exists reports whether the backing sheet has been created.
	Exists(ctx context.Context) (bool, error)
	Close() error
}

// SheetRepository stores records as rows of one sheet in a Workbook.
type SheetRepository struct {
	book  Workbook
	sheet string
	now   func() time.Time
}

// Compile-time check that SheetRepository implements Repository.
var _ Repository = (*SheetRepository)(nil)

// NewSheetRepository returns a repository over the named sheet of book.
func NewSheetRepository(book Workbook, sheet string) *SheetRepository {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &SheetRepository{book: book, sheet: sheet, now: time.Now}
}

// WithClock replaces the clock used to stamp created_at.
func (s *SheetRepository) WithClock(now func() time.Time) *SheetRepository {
	s.now = now
	return s
}

// SheetName returns the name of the backing sheet.
func (s *SheetRepository) SheetName() string {
	return s.sheet
}

// Workbook returns the backing workbook.
func (s *SheetRepository) Workbook() Workbook {
	return s.book
}

// Init creates the backing sheet with a header row if it does not exist.
func (s *SheetRepository) Init(ctx context.Context) error {
	if err := s.book.CreateSheet(ctx, s.sheet, HeaderRow()); err != nil {
		return fmt.Errorf("create sheet %s: %w", s.sheet, err)
	}
	return nil
}

// Exists reports whether the sheet is present in the workbook.
func (s *SheetRepository) Exists(ctx context.Context) (bool, error) {
	if _, err := s.book.Sheet(ctx, s.sheet); err != nil {
		if errors.Is(err, ErrSheetNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Append stores r as a new row. The caller's CreatedAt is overwritten.
func (s *SheetRepository) Append(ctx context.Context, r *models.Record) error {
	sheet, err := s.book.Sheet(ctx, s.sheet)
	if err != nil {
		return err
	}

	r.Stamp(s.now())
	if err := sheet.AppendRow(ctx, Row(r.Row())); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// QueryAll returns every record after the first row, which is always
// treated as the header.
func (s *SheetRepository) QueryAll(ctx context.Context) ([]*models.Record, error) {
	sheet, err := s.book.Sheet(ctx, s.sheet)
	if err != nil {
		return nil, err
	}

	rows, err := sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	records := make([]*models.Record, 0, max(len(rows)-1, 0))
	for i := 1; i < len(rows); i++ {
		records = append(records, models.RecordFromRow(rows[i]))
	}
	return records, nil
}

// Close closes the backing workbook.
func (s *SheetRepository) Close() error {
	return s.book.Close()
}

// Query returns the records belonging to user, newest date first.
// An empty user matches every record. Dates compare as strings.
func Query(ctx context.Context, repo Repository, user string) ([]*models.Record, error) {
	all, err := repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	records := FilterByUser(all, user)
	SortByDateDesc(records)
	return records, nil
}

// FilterByUser keeps records whose user equals user exactly.
func FilterByUser(records []*models.Record, user string) []*models.Record {
	if user == "" {
		return records
	}
	out := make([]*models.Record, 0, len(records))
	for _, r := range records {
		if r.User == user {
			out = append(out, r)
		}
	}
	return out
}

// SortByDateDesc orders records by date, newest first.
func SortByDateDesc(records []*models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}
