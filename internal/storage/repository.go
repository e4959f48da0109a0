package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financeiro/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const recordedLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between request goroutines
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.Card) (core.Card, error) {
	row, err := r.queries.CreateCard(ctx, CreateCardParams{
		Name:             c.Name,
		ClosingDay:       int64(c.ClosingDay),
		DueDay:           int64(c.DueDay),
		CreditLimitCents: c.CreditLimit.Cents,
		Active:           c.Active,
	})
	if err != nil {
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}
	slog.InfoContext(ctx, "Card saved to SQLite", "card_id", row.ID, "name", row.Name)
	return cardFromRow(row), nil
}

func (r *SQLiteRepository) UpdateCard(ctx context.Context, c core.Card) error {
	n, err := r.queries.UpdateCard(ctx, UpdateCardParams{
		Name:             c.Name,
		ClosingDay:       int64(c.ClosingDay),
		DueDay:           int64(c.DueDay),
		CreditLimitCents: c.CreditLimit.Cents,
		Active:           c.Active,
		ID:               c.ID,
	})
	if err != nil {
		return fmt.Errorf("update card %d: %w", c.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("card %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id int64) (core.Card, error) {
	row, err := r.queries.GetCard(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Card{}, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Card{}, fmt.Errorf("get card %d: %w", id, err)
	}
	return cardFromRow(row), nil
}

// ListCards returns all cards, or only the active ones.
func (r *SQLiteRepository) ListCards(ctx context.Context, activeOnly bool) ([]core.Card, error) {
	var (
		rows []Card
		err  error
	)
	if activeOnly {
		rows, err = r.queries.ListActiveCards(ctx)
	} else {
		rows, err = r.queries.ListCards(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	out := make([]core.Card, len(rows))
	for i, row := range rows {
		out[i] = cardFromRow(row)
	}
	return out, nil
}

// DeleteCard removes a card. Its transactions lose the card reference but
// keep their billing period.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DetachCard(ctx, id); err != nil {
		return fmt.Errorf("detach transactions from card %d: %w", id, err)
	}
	n, err := q.DeleteCard(ctx, id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Card deleted from SQLite", "card_id", id)
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		AmountCents:   t.Amount.Cents,
		Kind:          string(t.Kind),
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		Category:      string(t.Category),
		Date:          t.Date.String(),
		RecordedAt:    t.RecordedAt.UTC().Format(recordedLayout),
		CardID:        nullInt64(t.CardID),
		BillingMonth:  nullInt(t.BillingMonth),
		BillingYear:   nullInt(t.BillingYear),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"transaction_id", row.ID,
		"kind", row.Kind,
		"amount_cents", row.AmountCents,
		"date", row.Date)
	return transactionFromRow(row)
}

// UpdateTransaction stores every mutable field of t; RecordedAt is ignored.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	n, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		AmountCents:   t.Amount.Cents,
		Kind:          string(t.Kind),
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		Category:      string(t.Category),
		Date:          t.Date.String(),
		CardID:        nullInt64(t.CardID),
		BillingMonth:  nullInt(t.BillingMonth),
		BillingYear:   nullInt(t.BillingYear),
		ID:            t.ID,
	})
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListTransactions returns every transaction, newest date first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactionsFromRows(rows)
}

// ListByHome returns the transactions mirrored to the month sheet key.
func (r *SQLiteRepository) ListByHome(ctx context.Context, key core.SheetKey) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByHome(ctx, ListTransactionsByHomeParams{
		Year:      int64(key.Year),
		Month:     int64(key.Month),
		YearMonth: fmt.Sprintf("%04d-%02d", key.Year, key.Month),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions of %s: %w", key, err)
	}
	return transactionsFromRows(rows)
}

func (r *SQLiteRepository) ListByCard(ctx context.Context, cardID int64) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByCard(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("list transactions of card %d: %w", cardID, err)
	}
	return transactionsFromRows(rows)
}

func cardFromRow(c Card) core.Card {
	return core.Card{
		ID:          c.ID,
		Name:        c.Name,
		ClosingDay:  int(c.ClosingDay),
		DueDay:      int(c.DueDay),
		CreditLimit: core.Money{Cents: c.CreditLimitCents},
		Active:      c.Active,
	}
}

func transactionFromRow(t Transaction) (core.Transaction, error) {
	date, err := core.ParseDate(t.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: date %q: %w", t.ID, t.Date, err)
	}
	recorded, err := time.Parse(recordedLayout, t.RecordedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: recorded_at %q: %w", t.ID, t.RecordedAt, err)
	}
	out := core.Transaction{
		ID:            t.ID,
		Amount:        core.Money{Cents: t.AmountCents},
		Kind:          core.Kind(t.Kind),
		Description:   t.Description,
		PaymentMethod: core.PaymentMethod(t.PaymentMethod),
		Category:      core.Category(t.Category),
		Date:          date,
		RecordedAt:    recorded.UTC(),
	}
	if t.CardID.Valid {
		id := t.CardID.Int64
		out.CardID = &id
	}
	if t.BillingMonth.Valid && t.BillingYear.Valid {
		m, y := int(t.BillingMonth.Int64), int(t.BillingYear.Int64)
		out.BillingMonth, out.BillingYear = &m, &y
	}
	return out, nil
}

func transactionsFromRows(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
