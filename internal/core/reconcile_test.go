package core

import (
	"testing"
	"time"
)

func debitTx(date Date) Transaction {
	return Transaction{
		ID:            7,
		Amount:        Money{Cents: 5000},
		Kind:          KindExpense,
		Description:   "farmácia",
		PaymentMethod: PaymentDebit,
		Category:      CategoryOther,
		Date:          date,
		RecordedAt:    time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func creditTx(card Card, date Date) Transaction {
	tx := debitTx(date)
	tx.PaymentMethod = PaymentCredit
	tx.CardID = ptr(card.ID)
	AssignBilling(&tx, &card)
	return tx
}

func TestApplyEditDebitSameMonthUpdatesInPlace(t *testing.T) {
	old := debitTx(NewDate(2024, 3, 10))
	next, action := ApplyEdit(old, Edit{Date: ptr(NewDate(2024, 3, 28)), Amount: ptr(Money{Cents: 7500})}, nil)

	if action.Kind != ActionUpdateInPlace {
		t.Fatalf("expected update in place, got %v", action)
	}
	if action.To != (SheetKey{Year: 2024, Month: 3}) || action.From != action.To {
		t.Fatalf("unexpected keys %v", action)
	}
	if next.Amount.Cents != 7500 || next.Date.Day() != 28 || next.HasBilling() {
		t.Fatalf("unexpected transaction %+v", next)
	}
	if next.ID != old.ID || !next.RecordedAt.Equal(old.RecordedAt) {
		t.Fatalf("identity fields changed")
	}
}

func TestApplyEditDebitAcrossMonthsMoves(t *testing.T) {
	old := debitTx(NewDate(2024, 3, 31))
	_, action := ApplyEdit(old, Edit{Date: ptr(NewDate(2024, 4, 1))}, nil)
	want := MirrorAction{Kind: ActionMove, From: SheetKey{2024, 3}, To: SheetKey{2024, 4}}
	if action != want {
		t.Fatalf("got %v, want %v", action, want)
	}

	old = debitTx(NewDate(2024, 12, 15))
	_, action = ApplyEdit(old, Edit{Date: ptr(NewDate(2025, 1, 2))}, nil)
	if action.Kind != ActionMove || action.From.String() != "12-2024" || action.To.String() != "01-2025" {
		t.Fatalf("unexpected action %v", action)
	}
}

func TestApplyEditCreditBillingShift(t *testing.T) {
	card := Card{ID: 3, Name: "Visa", ClosingDay: 25, DueDay: 5, Active: true}
	old := creditTx(card, NewDate(2024, 3, 20))
	if *old.BillingMonth != 3 || *old.BillingYear != 2024 {
		t.Fatalf("unexpected initial billing %d/%d", *old.BillingMonth, *old.BillingYear)
	}

	newDate := NewDate(2024, 3, 26)
	next, action := ApplyEdit(old, Edit{Date: &newDate}, &card)
	m, y := BillingPeriodFor(card.ClosingDay, newDate)
	if *next.BillingMonth != m || *next.BillingYear != y {
		t.Fatalf("billing %d/%d, want %d/%d", *next.BillingMonth, *next.BillingYear, m, y)
	}
	want := MirrorAction{Kind: ActionMove, From: SheetKey{2024, 3}, To: SheetKey{2024, 4}}
	if action != want {
		t.Fatalf("got %v, want %v", action, want)
	}
}

func TestApplyEditCreditAlwaysMoves(t *testing.T) {
	card := Card{ID: 3, ClosingDay: 25}
	old := creditTx(card, NewDate(2024, 3, 20))
	_, action := ApplyEdit(old, Edit{Description: ptr("outro")}, &card)
	if action.Kind != ActionMove || action.From != action.To {
		t.Fatalf("expected move within the same sheet, got %v", action)
	}
}

func TestApplyEditMethodChange(t *testing.T) {
	card := Card{ID: 3, ClosingDay: 25}

	// credit -> debit clears billing and moves to the date month
	old := creditTx(card, NewDate(2024, 3, 26))
	next, action := ApplyEdit(old, Edit{PaymentMethod: ptr(PaymentDebit)}, &card)
	if next.HasBilling() || next.CardID != nil {
		t.Fatalf("debit transaction kept billing fields or card: %+v", next)
	}
	want := MirrorAction{Kind: ActionMove, From: SheetKey{2024, 4}, To: SheetKey{2024, 3}}
	if action != want {
		t.Fatalf("got %v, want %v", action, want)
	}

	// debit -> credit with a card gets a billing period
	old = debitTx(NewDate(2024, 3, 10))
	next, action = ApplyEdit(old, Edit{PaymentMethod: ptr(PaymentCredit), CardID: ptr(card.ID)}, &card)
	if !next.HasBilling() || *next.BillingMonth != 3 || *next.CardID != card.ID {
		t.Fatalf("unexpected transaction %+v", next)
	}
	if action.Kind != ActionMove {
		t.Fatalf("expected move, got %v", action)
	}
}

func TestApplyEditIncomeClearsMethod(t *testing.T) {
	old := debitTx(NewDate(2024, 3, 10))
	next, action := ApplyEdit(old, Edit{Kind: ptr(KindIncome), Category: ptr(CategorySalary)}, nil)
	if next.PaymentMethod != PaymentNone {
		t.Fatalf("income kept payment method %q", next.PaymentMethod)
	}
	if action.Kind != ActionMove {
		t.Fatalf("method change must move, got %v", action)
	}
	if err := next.Validate(); err != nil {
		t.Fatalf("edited income invalid: %v", err)
	}
}

func TestApplyEditMissingCardClearsBilling(t *testing.T) {
	card := Card{ID: 3, ClosingDay: 25}
	old := creditTx(card, NewDate(2024, 3, 26))
	old.CardID = nil // card was deleted

	next, action := ApplyEdit(old, Edit{}, nil)
	if next.HasBilling() {
		t.Fatalf("billing kept without a card")
	}
	want := MirrorAction{Kind: ActionMove, From: SheetKey{2024, 4}, To: SheetKey{2024, 3}}
	if action != want {
		t.Fatalf("got %v, want %v", action, want)
	}

	next, _ = ApplyEdit(creditTx(card, NewDate(2024, 3, 26)), Edit{ClearCard: true}, &card)
	if next.CardID != nil || next.HasBilling() {
		t.Fatalf("ClearCard left %+v", next)
	}
}

func TestApplyEditDoesNotAliasOld(t *testing.T) {
	card := Card{ID: 3, ClosingDay: 25}
	old := creditTx(card, NewDate(2024, 3, 20))
	next, _ := ApplyEdit(old, Edit{Date: ptr(NewDate(2024, 3, 30))}, &card)
	if *old.BillingMonth != 3 || *next.BillingMonth != 4 {
		t.Fatalf("old billing %d, new billing %d", *old.BillingMonth, *next.BillingMonth)
	}
}
