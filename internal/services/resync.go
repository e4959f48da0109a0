package services

import (
	"context"
	"fmt"
	"log/slog"

	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/sheets"
)

// ResyncReport counts the row changes a month rebuild made.
type ResyncReport struct {
	Key      core.SheetKey
	Updated  int
	Appended int
	Deleted  int
}

// Resync rebuilds month sheets from the primary store. It only runs when an
// operator asks for it.
type Resync struct {
	store   TransactionStore
	mirror  sheets.Mirror
	written func(core.SheetKey)
}

func NewResync(store TransactionStore, m sheets.Mirror) *Resync {
	return &Resync{store: store, mirror: m}
}

// OnWrite registers f to be called after every rebuilt sheet.
func (r *Resync) OnWrite(f func(core.SheetKey)) {
	r.written = f
}

// Month makes the sheet key hold exactly one row per transaction homed
// there: stray rows are deleted, duplicates collapsed, stale rows rewritten
// and missing ones appended.
func (r *Resync) Month(ctx context.Context, key core.SheetKey) (ResyncReport, error) {
	report := ResyncReport{Key: key}
	if r.mirror == nil {
		return report, sheets.ErrNotConfigured
	}
	if err := key.Validate(); err != nil {
		return report, err
	}
	if r.written != nil {
		defer r.written(key)
	}

	want, err := r.store.ListByHome(ctx, key)
	if err != nil {
		return report, err
	}
	if err := r.mirror.EnsureSheet(ctx, key); err != nil {
		return report, fmt.Errorf("ensure sheet %s: %w", key, err)
	}
	rows, err := r.mirror.ListRows(ctx, key)
	if err != nil {
		return report, fmt.Errorf("read sheet %s: %w", key, err)
	}

	present := make(map[int64]int, len(rows))
	for _, row := range rows {
		present[row.ID]++
	}
	homed := make(map[int64]bool, len(want))
	for _, t := range want {
		homed[t.ID] = true
	}

	for id, n := range present {
		if homed[id] && n == 1 {
			continue
		}
		deleted, err := r.deleteAll(ctx, key, id)
		report.Deleted += deleted
		if err != nil {
			return report, err
		}
		present[id] = 0
	}

	for _, t := range want {
		row := sheets.RowFromTransaction(t)
		if present[t.ID] == 1 {
			if _, err := r.mirror.UpdateRow(ctx, key, t.ID, row); err != nil {
				return report, fmt.Errorf("update row %d in %s: %w", t.ID, key, err)
			}
			report.Updated++
			continue
		}
		if err := r.mirror.AppendRow(ctx, key, row); err != nil {
			return report, fmt.Errorf("append row %d to %s: %w", t.ID, key, err)
		}
		report.Appended++
	}

	slog.InfoContext(ctx, "Month sheet rebuilt",
		applog.FieldComponent, applog.ComponentResync,
		applog.FieldSheet, key.String(),
		"updated", report.Updated,
		"appended", report.Appended,
		"deleted", report.Deleted)
	return report, nil
}

func (r *Resync) deleteAll(ctx context.Context, key core.SheetKey, id int64) (int, error) {
	deleted := 0
	for {
		found, err := r.mirror.DeleteRow(ctx, key, id)
		if err != nil {
			return deleted, fmt.Errorf("delete row %d from %s: %w", id, key, err)
		}
		if !found {
			return deleted, nil
		}
		deleted++
	}
}
