package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Card is a row of the cards table.
type Card struct {
	ID               int64
	Name             string
	ClosingDay       int64
	DueDay           int64
	CreditLimitCents int64
	Active           bool
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID            int64
	AmountCents   int64
	Kind          string
	Description   string
	PaymentMethod string
	Category      string
	Date          string
	RecordedAt    string
	CardID        sql.NullInt64
	BillingMonth  sql.NullInt64
	BillingYear   sql.NullInt64
}

const cardColumns = `id, name, closing_day, due_day, credit_limit_cents, active`

const transactionColumns = `id, amount_cents, kind, description, payment_method, category,
       date, recorded_at, card_id, billing_month, billing_year`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (Card, error) {
	var c Card
	err := s.Scan(&c.ID, &c.Name, &c.ClosingDay, &c.DueDay, &c.CreditLimitCents, &c.Active)
	return c, err
}

func scanTransaction(s scanner) (Transaction, error) {
	var t Transaction
	err := s.Scan(&t.ID, &t.AmountCents, &t.Kind, &t.Description, &t.PaymentMethod, &t.Category,
		&t.Date, &t.RecordedAt, &t.CardID, &t.BillingMonth, &t.BillingYear)
	return t, err
}

const createCard = `-- name: CreateCard :one
INSERT INTO cards (name, closing_day, due_day, credit_limit_cents, active)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + cardColumns

type CreateCardParams struct {
	Name             string
	ClosingDay       int64
	DueDay           int64
	CreditLimitCents int64
	Active           bool
}

func (q *Queries) CreateCard(ctx context.Context, arg CreateCardParams) (Card, error) {
	row := q.db.QueryRowContext(ctx, createCard, arg.Name, arg.ClosingDay, arg.DueDay, arg.CreditLimitCents, arg.Active)
	return scanCard(row)
}

const updateCard = `-- name: UpdateCard :execrows
UPDATE cards
SET name = ?, closing_day = ?, due_day = ?, credit_limit_cents = ?, active = ?
WHERE id = ?`

type UpdateCardParams struct {
	Name             string
	ClosingDay       int64
	DueDay           int64
	CreditLimitCents int64
	Active           bool
	ID               int64
}

func (q *Queries) UpdateCard(ctx context.Context, arg UpdateCardParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCard, arg.Name, arg.ClosingDay, arg.DueDay, arg.CreditLimitCents, arg.Active, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getCard = `-- name: GetCard :one
SELECT ` + cardColumns + ` FROM cards WHERE id = ?`

func (q *Queries) GetCard(ctx context.Context, id int64) (Card, error) {
	return scanCard(q.db.QueryRowContext(ctx, getCard, id))
}

const listCards = `-- name: ListCards :many
SELECT ` + cardColumns + ` FROM cards ORDER BY name, id`

const listActiveCards = `-- name: ListActiveCards :many
SELECT ` + cardColumns + ` FROM cards WHERE active = 1 ORDER BY name, id`

func (q *Queries) ListCards(ctx context.Context) ([]Card, error) {
	return q.queryCards(ctx, listCards)
}

func (q *Queries) ListActiveCards(ctx context.Context) ([]Card, error) {
	return q.queryCards(ctx, listActiveCards)
}

func (q *Queries) queryCards(ctx context.Context, query string, args ...any) ([]Card, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const detachCard = `-- name: DetachCard :exec
UPDATE transactions SET card_id = NULL WHERE card_id = ?`

func (q *Queries) DetachCard(ctx context.Context, cardID int64) error {
	_, err := q.db.ExecContext(ctx, detachCard, cardID)
	return err
}

const deleteCard = `-- name: DeleteCard :execrows
DELETE FROM cards WHERE id = ?`

func (q *Queries) DeleteCard(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCard, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (amount_cents, kind, description, payment_method, category,
                          date, recorded_at, card_id, billing_month, billing_year)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
	AmountCents   int64
	Kind          string
	Description   string
	PaymentMethod string
	Category      string
	Date          string
	RecordedAt    string
	CardID        sql.NullInt64
	BillingMonth  sql.NullInt64
	BillingYear   sql.NullInt64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.AmountCents, arg.Kind, arg.Description, arg.PaymentMethod, arg.Category,
		arg.Date, arg.RecordedAt, arg.CardID, arg.BillingMonth, arg.BillingYear)
	return scanTransaction(row)
}

// recorded_at is never rewritten.
const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET amount_cents = ?, kind = ?, description = ?, payment_method = ?, category = ?,
    date = ?, card_id = ?, billing_month = ?, billing_year = ?
WHERE id = ?`

type UpdateTransactionParams struct {
	AmountCents   int64
	Kind          string
	Description   string
	PaymentMethod string
	Category      string
	Date          string
	CardID        sql.NullInt64
	BillingMonth  sql.NullInt64
	BillingYear   sql.NullInt64
	ID            int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		arg.AmountCents, arg.Kind, arg.Description, arg.PaymentMethod, arg.Category,
		arg.Date, arg.CardID, arg.BillingMonth, arg.BillingYear, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getTransaction = `-- name: GetTransaction :one
SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listTransactions = `-- name: ListTransactions :many
SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, id DESC`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return q.queryTransactions(ctx, listTransactions)
}

// A transaction is homed by its billing period when it has one, otherwise by
// the month of its date.
const listTransactionsByHome = `-- name: ListTransactionsByHome :many
SELECT ` + transactionColumns + ` FROM transactions
WHERE (billing_year = ?1 AND billing_month = ?2)
   OR (billing_year IS NULL AND substr(date, 1, 7) = ?3)
ORDER BY date, id`

type ListTransactionsByHomeParams struct {
	Year      int64
	Month     int64
	YearMonth string // YYYY-MM
}

func (q *Queries) ListTransactionsByHome(ctx context.Context, arg ListTransactionsByHomeParams) ([]Transaction, error) {
	return q.queryTransactions(ctx, listTransactionsByHome, arg.Year, arg.Month, arg.YearMonth)
}

const listTransactionsByCard = `-- name: ListTransactionsByCard :many
SELECT ` + transactionColumns + ` FROM transactions WHERE card_id = ? ORDER BY date, id`

func (q *Queries) ListTransactionsByCard(ctx context.Context, cardID int64) ([]Transaction, error) {
	return q.queryTransactions(ctx, listTransactionsByCard, cardID)
}

func (q *Queries) queryTransactions(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}
