// ABOUTME: Workbook implementation over Charm KV.
// ABOUTME: Sheets and rows are JSON values under type-prefixed keys.
package charm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/storage"
)

const (
	SheetPrefix = "sheet:"
	RowPrefix   = "row:"
)

// ErrInvalidSheetName is returned for sheet names that would collide in the
// row key space.
var ErrInvalidSheetName = errors.New("charm sheet names must be non-empty and must not contain ':'")

// Workbook stores sheets in a Charm KV database.
type Workbook struct {
	c   *Client
	now func() time.Time

	// mu serialises appends so sequence keys stay ordered within a process.
	mu   sync.Mutex
	last int64
}

// Compile-time check that Workbook implements storage.Workbook.
var _ storage.Workbook = (*Workbook)(nil)

// NewWorkbook returns a Workbook over c.
func NewWorkbook(c *Client) *Workbook {
	return &Workbook{c: c, now: time.Now}
}

// Client returns the underlying KV client.
func (w *Workbook) Client() *Client {
	return w.c
}

func (w *Workbook) Sheet(_ context.Context, name string) (storage.Sheet, error) {
	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	_, ok, err := w.c.get(sheetKey(name))
	if err != nil {
		return nil, fmt.Errorf("get sheet %s: %w", name, err)
	}
	if !ok {
		return nil, storage.ErrSheetNotFound
	}
	return &kvSheet{book: w, name: name}, nil
}

func (w *Workbook) CreateSheet(_ context.Context, name string, header storage.Row) error {
	if err := validateSheetName(name); err != nil {
		return err
	}
	_, ok, err := w.c.get(sheetKey(name))
	if err != nil {
		return fmt.Errorf("get sheet %s: %w", name, err)
	}
	if ok {
		return nil
	}

	data, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	return w.c.set(sheetKey(name), data)
}

func (w *Workbook) Close() error {
	return w.c.Close()
}

// nextSeq returns a strictly increasing nanosecond timestamp.
func (w *Workbook) nextSeq() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	seq := w.now().UnixNano()
	if seq <= w.last {
		seq = w.last + 1
	}
	w.last = seq
	return seq
}

type kvSheet struct {
	book *Workbook
	name string
}

func (s *kvSheet) AppendRow(_ context.Context, row storage.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	return s.book.c.set(rowKey(s.name, s.book.nextSeq(), uuid.New()), data)
}

func (s *kvSheet) Rows(_ context.Context) ([]storage.Row, error) {
	header, ok, err := s.book.c.get(sheetKey(s.name))
	if err != nil {
		return nil, fmt.Errorf("get sheet %s: %w", s.name, err)
	}
	if !ok {
		return nil, storage.ErrSheetNotFound
	}

	entries, err := s.book.c.listByPrefix(rowPrefix(s.name))
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	var rows []storage.Row
	var h storage.Row
	if err := json.Unmarshal(header, &h); err != nil {
		return nil, fmt.Errorf("unmarshal header: %w", err)
	}
	if h != nil {
		rows = append(rows, h)
	}

	for _, e := range entries {
		var r storage.Row
		if err := json.Unmarshal(e.value, &r); err != nil {
			continue // Skip invalid entries
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// validateSheetName keeps row prefixes of different sheets disjoint.
func validateSheetName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("%w: %q", ErrInvalidSheetName, name)
	}
	return nil
}

func sheetKey(name string) string {
	return SheetPrefix + name
}

func rowPrefix(sheet string) string {
	return RowPrefix + sheet + ":"
}

// rowKey orders rows by sequence; the UUID keeps keys from different
// devices distinct.
func rowKey(sheet string, seq int64, id uuid.UUID) string {
	return fmt.Sprintf("%s%020d:%s", rowPrefix(sheet), seq, id)
}
