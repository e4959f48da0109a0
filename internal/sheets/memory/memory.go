// Package memory is an in-process spreadsheet mirror used for local runs and
// tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"financeiro/internal/core"
	"financeiro/internal/sheets"
)

type sheet struct {
	rows  []sheets.Row
	index map[int64]int // transaction ID -> position in rows
}

type Store struct {
	mu     sync.Mutex
	sheets map[core.SheetKey]*sheet
}

func New() *Store {
	return &Store{sheets: map[core.SheetKey]*sheet{}}
}

var (
	_ sheets.Mirror      = (*Store)(nil)
	_ sheets.SheetLister = (*Store)(nil)
)

func (s *Store) EnsureSheet(ctx context.Context, key core.SheetKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheetLocked(key)
	return nil
}

// AppendRow adds row at the end of the sheet, creating it if needed. Like a
// real spreadsheet it does not reject duplicate IDs; lookups see the first.
func (s *Store) AppendRow(ctx context.Context, key core.SheetKey, row sheets.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.sheetLocked(key)
	sh.rows = append(sh.rows, row)
	if _, ok := sh.index[row.ID]; !ok {
		sh.index[row.ID] = len(sh.rows) - 1
	}
	return nil
}

func (s *Store) FindRowByID(ctx context.Context, key core.SheetKey, id int64) (sheets.Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Row{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.sheets[key]
	if !ok {
		return sheets.Row{}, false, nil
	}
	i, ok := sh.index[id]
	if !ok {
		return sheets.Row{}, false, nil
	}
	return sh.rows[i], true, nil
}

func (s *Store) UpdateRow(ctx context.Context, key core.SheetKey, id int64, row sheets.Row) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.sheets[key]
	if !ok {
		return false, nil
	}
	i, ok := sh.index[id]
	if !ok {
		return false, nil
	}
	row.ID = id
	sh.rows[i] = row
	return true, nil
}

func (s *Store) DeleteRow(ctx context.Context, key core.SheetKey, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.sheets[key]
	if !ok {
		return false, nil
	}
	i, ok := sh.index[id]
	if !ok {
		return false, nil
	}
	sh.rows = slices.Delete(sh.rows, i, i+1)
	sh.reindex()
	return true, nil
}

func (s *Store) ListRows(ctx context.Context, key core.SheetKey) ([]sheets.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.sheets[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(sh.rows), nil
}

// ListSheets returns the existing month sheets, oldest first.
func (s *Store) ListSheets(ctx context.Context) ([]core.SheetKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]core.SheetKey, 0, len(s.sheets))
	for k := range s.sheets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b core.SheetKey) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return keys, nil
}

func (s *Store) sheetLocked(key core.SheetKey) *sheet {
	sh, ok := s.sheets[key]
	if !ok {
		sh = &sheet{index: map[int64]int{}}
		s.sheets[key] = sh
	}
	return sh
}

func (sh *sheet) reindex() {
	clear(sh.index)
	for i, r := range sh.rows {
		if _, ok := sh.index[r.ID]; !ok {
			sh.index[r.ID] = i
		}
	}
}
