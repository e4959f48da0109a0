package memory

import (
	"context"
	"testing"

	"financeiro/internal/core"
	"financeiro/internal/sheets"
)

func row(id int64, cents int64) sheets.Row {
	return sheets.Row{ID: id, Amount: core.Money{Cents: cents}, Kind: core.KindExpense, Date: core.NewDate(2024, 3, 1)}
}

func TestMemoryStoreRowLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	key := core.SheetKey{Year: 2024, Month: 3}

	if rows, err := s.ListRows(ctx, key); err != nil || len(rows) != 0 {
		t.Fatalf("unexpected rows before any write: %v %v", rows, err)
	}
	for i := int64(1); i <= 3; i++ {
		if err := s.AppendRow(ctx, key, row(i, i*100)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, ok, err := s.FindRowByID(ctx, key, 2)
	if err != nil || !ok || got.Amount.Cents != 200 {
		t.Fatalf("find: %+v %v %v", got, ok, err)
	}

	ok, err = s.UpdateRow(ctx, key, 2, row(99, 999))
	if err != nil || !ok {
		t.Fatalf("update: %v %v", ok, err)
	}
	got, _, _ = s.FindRowByID(ctx, key, 2)
	if got.ID != 2 || got.Amount.Cents != 999 {
		t.Fatalf("update should keep the ID, got %+v", got)
	}

	ok, err = s.DeleteRow(ctx, key, 1)
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	// positions shifted after delete; lookups must still work
	if got, ok, _ := s.FindRowByID(ctx, key, 3); !ok || got.Amount.Cents != 300 {
		t.Fatalf("find after delete: %+v %v", got, ok)
	}
	rows, _ := s.ListRows(ctx, key)
	if len(rows) != 2 || rows[0].ID != 2 || rows[1].ID != 3 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestMemoryStoreMisses(t *testing.T) {
	ctx := context.Background()
	s := New()
	key := core.SheetKey{Year: 2024, Month: 3}
	if _, ok, err := s.FindRowByID(ctx, key, 1); ok || err != nil {
		t.Fatalf("expected miss on missing sheet, got %v %v", ok, err)
	}
	if err := s.EnsureSheet(ctx, key); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if ok, err := s.UpdateRow(ctx, key, 1, row(1, 1)); ok || err != nil {
		t.Fatalf("expected update miss, got %v %v", ok, err)
	}
	if ok, err := s.DeleteRow(ctx, key, 1); ok || err != nil {
		t.Fatalf("expected delete miss, got %v %v", ok, err)
	}
	if err := s.EnsureSheet(ctx, core.SheetKey{Year: 2024, Month: 13}); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestMemoryStoreListSheetsAndCancel(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.EnsureSheet(ctx, core.SheetKey{Year: 2024, Month: 2})
	_ = s.EnsureSheet(ctx, core.SheetKey{Year: 2023, Month: 12})
	_ = s.EnsureSheet(ctx, core.SheetKey{Year: 2024, Month: 1})
	keys, err := s.ListSheets(ctx)
	if err != nil || len(keys) != 3 || keys[0].String() != "12-2023" || keys[2].String() != "02-2024" {
		t.Fatalf("unexpected sheets %v %v", keys, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.AppendRow(cancelled, keys[0], row(1, 1)); err == nil {
		t.Fatalf("expected context error")
	}
}
