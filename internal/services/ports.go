// Package services coordinates the primary store and the spreadsheet mirror.
package services

import (
	"context"

	"financeiro/internal/core"
	"financeiro/internal/storage"
)

// TransactionStore is the primary store of transactions.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListByHome(ctx context.Context, key core.SheetKey) ([]core.Transaction, error)
	ListByCard(ctx context.Context, cardID int64) ([]core.Transaction, error)
}

// CardStore is the primary store of credit cards.
type CardStore interface {
	CreateCard(ctx context.Context, c core.Card) (core.Card, error)
	UpdateCard(ctx context.Context, c core.Card) error
	GetCard(ctx context.Context, id int64) (core.Card, error)
	ListCards(ctx context.Context, activeOnly bool) ([]core.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

var (
	_ TransactionStore = (*storage.SQLiteRepository)(nil)
	_ CardStore        = (*storage.SQLiteRepository)(nil)
)
