package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"financeiro/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func ptr[T any](v T) *T { return &v }

func TestCardCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	visa, err := repo.CreateCard(ctx, core.Card{Name: "Visa", ClosingDay: 25, DueDay: 5, CreditLimit: core.Money{Cents: 500000}, Active: true})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if visa.ID == 0 {
		t.Fatal("expected an ID")
	}
	amex, _ := repo.CreateCard(ctx, core.Card{Name: "Amex", ClosingDay: 10, DueDay: 20, Active: true})

	amex.Active = false
	if err := repo.UpdateCard(ctx, amex); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	got, err := repo.GetCard(ctx, amex.ID)
	if err != nil || got.Active {
		t.Fatalf("GetCard: %+v %v", got, err)
	}

	active, err := repo.ListCards(ctx, true)
	if err != nil || len(active) != 1 || active[0].ID != visa.ID {
		t.Fatalf("ListCards(active): %+v %v", active, err)
	}
	all, _ := repo.ListCards(ctx, false)
	if len(all) != 2 || all[0].Name != "Amex" {
		t.Fatalf("ListCards(all) should be ordered by name: %+v", all)
	}

	if _, err := repo.GetCard(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateCard(ctx, core.Card{ID: 999, Name: "x", ClosingDay: 1, DueDay: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	card, _ := repo.CreateCard(ctx, core.Card{Name: "Visa", ClosingDay: 25, DueDay: 5, Active: true})

	recorded := time.Date(2024, 3, 26, 13, 45, 10, 500, time.UTC)
	tx, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount:        core.Money{Cents: 12345},
		Kind:          core.KindExpense,
		Description:   "mercado",
		PaymentMethod: core.PaymentCredit,
		Category:      core.CategoryFood,
		Date:          core.NewDate(2024, 3, 26),
		RecordedAt:    recorded,
		CardID:        ptr(card.ID),
		BillingMonth:  ptr(4),
		BillingYear:   ptr(2024),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID == 0 || !tx.RecordedAt.Equal(recorded) || *tx.BillingMonth != 4 || *tx.CardID != card.ID {
		t.Fatalf("unexpected stored transaction %+v", tx)
	}

	tx.Amount = core.Money{Cents: 500}
	tx.PaymentMethod = core.PaymentDebit
	tx.BillingMonth, tx.BillingYear = nil, nil
	tx.RecordedAt = time.Now()
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	got, err := repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 500 || got.HasBilling() || got.PaymentMethod != core.PaymentDebit {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.RecordedAt.Equal(recorded) {
		t.Fatalf("recorded_at changed: %v", got.RecordedAt)
	}

	if err := repo.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByHome(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	card, _ := repo.CreateCard(ctx, core.Card{Name: "Visa", ClosingDay: 25, DueDay: 5, Active: true})

	mk := func(date core.Date, credit bool) int64 {
		tx := core.Transaction{Amount: core.Money{Cents: 100}, Kind: core.KindExpense, PaymentMethod: core.PaymentDebit, Date: date, RecordedAt: time.Now()}
		if credit {
			tx.PaymentMethod = core.PaymentCredit
			tx.CardID = ptr(card.ID)
			core.AssignBilling(&tx, &card)
		}
		out, err := repo.CreateTransaction(ctx, tx)
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		return out.ID
	}
	marchDebit := mk(core.NewDate(2024, 3, 2), false)
	lateMarchCredit := mk(core.NewDate(2024, 3, 28), true) // billed in April
	aprilDebit := mk(core.NewDate(2024, 4, 1), false)

	march, err := repo.ListByHome(ctx, core.SheetKey{Year: 2024, Month: 3})
	if err != nil || len(march) != 1 || march[0].ID != marchDebit {
		t.Fatalf("march: %+v %v", march, err)
	}
	april, _ := repo.ListByHome(ctx, core.SheetKey{Year: 2024, Month: 4})
	if len(april) != 2 || april[0].ID != lateMarchCredit || april[1].ID != aprilDebit {
		t.Fatalf("april: %+v", april)
	}

	all, _ := repo.ListTransactions(ctx)
	if len(all) != 3 || all[0].ID != aprilDebit {
		t.Fatalf("ListTransactions should be newest first: %+v", all)
	}
	byCard, _ := repo.ListByCard(ctx, card.ID)
	if len(byCard) != 1 || byCard[0].ID != lateMarchCredit {
		t.Fatalf("ListByCard: %+v", byCard)
	}
}

func TestDeleteCardKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	card, _ := repo.CreateCard(ctx, core.Card{Name: "Visa", ClosingDay: 25, DueDay: 5, Active: true})
	tx := core.Transaction{
		Amount: core.Money{Cents: 100}, Kind: core.KindExpense, PaymentMethod: core.PaymentCredit,
		Date: core.NewDate(2024, 3, 28), RecordedAt: time.Now(), CardID: ptr(card.ID),
	}
	core.AssignBilling(&tx, &card)
	tx, _ = repo.CreateTransaction(ctx, tx)

	if err := repo.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	got, err := repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("transaction should survive card delete: %v", err)
	}
	if got.CardID != nil {
		t.Fatalf("card reference should be cleared, got %d", *got.CardID)
	}
	if !got.HasBilling() || got.HomeKey() != (core.SheetKey{Year: 2024, Month: 4}) {
		t.Fatalf("billing period should be kept: %+v", got)
	}
	if err := repo.DeleteCard(ctx, card.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := repo.Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
		repo.Close()
	}
}
