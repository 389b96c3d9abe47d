// ABOUTME: In-process Workbook for tests and throwaway servers.
// ABOUTME: Rows live in memory and vanish on Close.
package storage

import (
	"context"
	"sync"
)

// MemoryWorkbook keeps sheets in memory.
type MemoryWorkbook struct {
	mu     sync.RWMutex
	sheets map[string]*memorySheet
}

// Compile-time check that MemoryWorkbook implements Workbook.
var _ Workbook = (*MemoryWorkbook)(nil)

// NewMemoryWorkbook returns an empty in-memory workbook.
func NewMemoryWorkbook() *MemoryWorkbook {
	return &MemoryWorkbook{sheets: make(map[string]*memorySheet)}
}

func (m *MemoryWorkbook) Sheet(_ context.Context, name string) (Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sheets[name]
	if !ok {
		return nil, ErrSheetNotFound
	}
	return s, nil
}

func (m *MemoryWorkbook) CreateSheet(_ context.Context, name string, header Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[name]; ok {
		return nil
	}
	s := &memorySheet{}
	if header != nil {
		s.rows = append(s.rows, cloneRow(header))
	}
	m.sheets[name] = s
	return nil
}

func (m *MemoryWorkbook) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets = make(map[string]*memorySheet)
	return nil
}

type memorySheet struct {
	mu   sync.RWMutex
	rows []Row
}

func (s *memorySheet) AppendRow(_ context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, cloneRow(row))
	return nil
}

func (s *memorySheet) Rows(_ context.Context) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = cloneRow(r)
	}
	return out, nil
}

func cloneRow(r Row) Row {
	return append(Row(nil), r...)
}
