package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-26 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 26 || d.String() != "2024-03-26" {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "26/03/2024", "2024-13-01", "2024-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("expected zero to be ok, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := (Money{Cents: maxAmountCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount above the cap, got %v", err)
	}
}

func TestCardValidate(t *testing.T) {
	good := Card{Name: "Nubank", ClosingDay: 25, DueDay: 5, CreditLimit: Money{Cents: 500000}, Active: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	cases := []struct {
		mut  func(*Card)
		want error
	}{
		{func(c *Card) { c.Name = "  " }, ErrEmptyCardName},
		{func(c *Card) { c.Name = strings.Repeat("x", 101) }, ErrCardNameTooLong},
		{func(c *Card) { c.ClosingDay = 0 }, ErrInvalidClosingDay},
		{func(c *Card) { c.ClosingDay = 32 }, ErrInvalidClosingDay},
		{func(c *Card) { c.DueDay = 0 }, ErrInvalidDueDay},
		{func(c *Card) { c.CreditLimit = Money{Cents: -1} }, ErrInvalidAmount},
	}
	for i, tc := range cases {
		c := good
		tc.mut(&c)
		if err := c.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:        Money{Cents: 1000},
		Kind:          KindExpense,
		Description:   "mercado",
		PaymentMethod: PaymentCredit,
		Category:      CategoryFood,
		Date:          NewDate(2024, 3, 26),
		CardID:        ptr(int64(1)),
		BillingMonth:  ptr(4),
		BillingYear:   ptr(2024),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mut  func(*Transaction)
		want error
	}{
		{func(tx *Transaction) { tx.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Kind = "x" }, ErrInvalidKind},
		{func(tx *Transaction) { tx.PaymentMethod = "pix" }, ErrInvalidPaymentMethod},
		{func(tx *Transaction) { tx.Kind = KindIncome }, ErrIncomeWithPaymentMethod},
		{func(tx *Transaction) { tx.Category = "viagem" }, ErrInvalidCategory},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{func(tx *Transaction) { tx.Description = strings.Repeat("a", 251) }, ErrDescriptionTooLong},
		{func(tx *Transaction) { tx.PaymentMethod = PaymentDebit }, ErrBillingWithoutCredit},
		{func(tx *Transaction) { tx.CardID = nil }, ErrBillingWithoutCredit},
		{func(tx *Transaction) { tx.BillingMonth = ptr(13) }, ErrInvalidMonth},
	}
	for i, tc := range cases {
		tx := good
		tc.mut(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryFood.Label(); got != "Alimentação" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Category("custom").Label(); got != "custom" {
		t.Fatalf("unknown categories should echo their value, got %q", got)
	}
	if len(Categories()) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(Categories()))
	}
}

func TestHomeKeyAndSheetName(t *testing.T) {
	debit := Transaction{Date: NewDate(2024, 3, 26), PaymentMethod: PaymentDebit}
	if got := debit.HomeKey(); got != (SheetKey{Year: 2024, Month: 3}) || got.String() != "03-2024" {
		t.Fatalf("unexpected debit home key %v", got)
	}
	credit := Transaction{Date: NewDate(2024, 12, 28), BillingMonth: ptr(1), BillingYear: ptr(2025)}
	if got := credit.HomeKey(); got.String() != "01-2025" {
		t.Fatalf("unexpected credit home key %v", got)
	}

	k, err := ParseSheetKey("11-2023")
	if err != nil || k != (SheetKey{Year: 2023, Month: 11}) {
		t.Fatalf("ParseSheetKey = %v, %v", k, err)
	}
	if _, err := ParseSheetKey("Sheet1"); err == nil {
		t.Fatalf("expected error for non month sheet")
	}
	if err := (SheetKey{Year: 2024, Month: 13}).Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
