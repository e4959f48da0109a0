package sheets

import (
	"context"
	"errors"

	"financeiro/internal/core"
)

// ErrNotConfigured is returned by adapters built without a spreadsheet.
var ErrNotConfigured = errors.New("spreadsheet mirror not configured")

// Ports for outbound adapters.
type (
	// Mirror is the month-partitioned spreadsheet copy of the transactions.
	// Lookup misses are reported as false, transport failures as errors.
	Mirror interface {
		// EnsureSheet creates the month sheet and its header when absent.
		EnsureSheet(ctx context.Context, key core.SheetKey) error
		AppendRow(ctx context.Context, key core.SheetKey, row Row) error
		FindRowByID(ctx context.Context, key core.SheetKey, id int64) (Row, bool, error)
		UpdateRow(ctx context.Context, key core.SheetKey, id int64, row Row) (bool, error)
		DeleteRow(ctx context.Context, key core.SheetKey, id int64) (bool, error)
		ListRows(ctx context.Context, key core.SheetKey) ([]Row, error)
	}

	// SheetLister is implemented by mirrors that can enumerate their month
	// sheets.
	SheetLister interface {
		ListSheets(ctx context.Context) ([]core.SheetKey, error)
	}
)
