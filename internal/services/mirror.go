package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/sheets"
)

// Warning reports a mirror operation that failed or missed after the
// primary store was already updated.
type Warning struct {
	Operation     string `json:"operation"`
	Sheet         string `json:"sheet"`
	TransactionID int64  `json:"transaction_id"`
	Message       string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s (transaction %d): %s", w.Operation, w.Sheet, w.TransactionID, w.Message)
}

const (
	opEnsure = "ensure_sheet"
	opAppend = "append_row"
	opUpdate = "update_row"
	opDelete = "delete_row"

	msgRowNotFound = "row not found in sheet"
)

// MirrorWriter executes mirror actions and turns every failure into a
// Warning. A nil mirror disables mirroring.
type MirrorWriter struct {
	mirror  sheets.Mirror
	timeout time.Duration
	written func(core.SheetKey)
}

// NewMirrorWriter wraps m; each mirror call gets its own timeout when
// timeout is positive.
func NewMirrorWriter(m sheets.Mirror, timeout time.Duration) *MirrorWriter {
	return &MirrorWriter{mirror: m, timeout: timeout}
}

// OnWrite registers f to be called with every sheet the writer touches.
func (w *MirrorWriter) OnWrite(f func(core.SheetKey)) {
	w.written = f
}

func (w *MirrorWriter) Enabled() bool {
	return w != nil && w.mirror != nil
}

// Append ensures the home sheet of t exists and appends its row.
func (w *MirrorWriter) Append(ctx context.Context, t core.Transaction) []Warning {
	if !w.Enabled() {
		return nil
	}
	return w.appendTo(ctx, t.HomeKey(), t)
}

// Remove deletes the row of transaction id from the sheet key.
func (w *MirrorWriter) Remove(ctx context.Context, key core.SheetKey, id int64) []Warning {
	if !w.Enabled() {
		return nil
	}
	defer w.touch(key)
	found, err := call(ctx, w.timeout, func(ctx context.Context) (bool, error) {
		return w.mirror.DeleteRow(ctx, key, id)
	})
	if err != nil {
		return []Warning{w.warn(ctx, opDelete, key, id, err)}
	}
	if !found {
		return []Warning{w.miss(ctx, opDelete, key, id)}
	}
	return nil
}

// Apply brings the mirror in line with an edit of t. A move removes the row
// from the old sheet and appends it to the new one even when the removal
// failed, so the new home always receives the row.
func (w *MirrorWriter) Apply(ctx context.Context, action core.MirrorAction, t core.Transaction) []Warning {
	if !w.Enabled() {
		return nil
	}
	slog.DebugContext(ctx, "Applying mirror action", "action", action.String(), "transaction_id", t.ID)

	if action.Kind == core.ActionMove {
		warnings := w.Remove(ctx, action.From, t.ID)
		return append(warnings, w.appendTo(ctx, action.To, t)...)
	}

	key := action.To
	defer w.touch(key)
	found, err := call(ctx, w.timeout, func(ctx context.Context) (bool, error) {
		return w.mirror.UpdateRow(ctx, key, t.ID, sheets.RowFromTransaction(t))
	})
	if err != nil {
		return []Warning{w.warn(ctx, opUpdate, key, t.ID, err)}
	}
	if !found {
		return []Warning{w.miss(ctx, opUpdate, key, t.ID)}
	}
	return nil
}

func (w *MirrorWriter) appendTo(ctx context.Context, key core.SheetKey, t core.Transaction) []Warning {
	defer w.touch(key)
	_, err := call(ctx, w.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.mirror.EnsureSheet(ctx, key)
	})
	if err != nil {
		return []Warning{w.warn(ctx, opEnsure, key, t.ID, err)}
	}
	_, err = call(ctx, w.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.mirror.AppendRow(ctx, key, sheets.RowFromTransaction(t))
	})
	if err != nil {
		return []Warning{w.warn(ctx, opAppend, key, t.ID, err)}
	}
	return nil
}

func (w *MirrorWriter) touch(key core.SheetKey) {
	if w.written != nil {
		w.written(key)
	}
}

func (w *MirrorWriter) warn(ctx context.Context, op string, key core.SheetKey, id int64, err error) Warning {
	slog.WarnContext(ctx, "Mirror operation failed",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldOperation, op,
		applog.FieldSheet, key.String(),
		applog.FieldTransactionID, id,
		applog.FieldError, err)
	return Warning{Operation: op, Sheet: key.String(), TransactionID: id, Message: err.Error()}
}

func (w *MirrorWriter) miss(ctx context.Context, op string, key core.SheetKey, id int64) Warning {
	slog.WarnContext(ctx, "Mirror row not found",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldOperation, op,
		applog.FieldSheet, key.String(),
		applog.FieldTransactionID, id)
	return Warning{Operation: op, Sheet: key.String(), TransactionID: id, Message: msgRowNotFound}
}

// call runs f under its own timeout.
func call[T any](ctx context.Context, timeout time.Duration, f func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return f(ctx)
}
