package services

import (
	"context"

	"financeiro/internal/core"
)

// Reports aggregates stored transactions.
type Reports struct {
	store TransactionStore
}

func NewReports(store TransactionStore) *Reports {
	return &Reports{store: store}
}

// Month summarizes the transactions homed in the month sheet key.
func (r *Reports) Month(ctx context.Context, key core.SheetKey) (core.MonthSummary, error) {
	if err := key.Validate(); err != nil {
		return core.MonthSummary{}, err
	}
	txs, err := r.store.ListByHome(ctx, key)
	if err != nil {
		return core.MonthSummary{}, err
	}
	return core.Summarize(key, txs), nil
}
