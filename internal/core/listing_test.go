package core

import (
	"errors"
	"math"
	"testing"
)

func sampleHistory() []Transaction {
	card := Card{ID: 1, ClosingDay: 25}
	groceries := creditTx(card, NewDate(2024, 3, 26)) // billed 04-2024
	groceries.ID, groceries.Description, groceries.Category, groceries.Amount = 1, "Mercado Extra", CategoryFood, Money{Cents: 25000}

	bus := debitTx(NewDate(2024, 3, 5))
	bus.ID, bus.Description, bus.Category, bus.Amount = 2, "ônibus", CategoryTransport, Money{Cents: 450}

	salary := debitTx(NewDate(2024, 3, 1))
	salary.ID, salary.Kind, salary.PaymentMethod, salary.Category = 3, KindIncome, PaymentNone, CategorySalary
	salary.Description, salary.Amount = "Salário março", Money{Cents: 800000}

	rent := debitTx(NewDate(2024, 4, 2))
	rent.ID, rent.Description, rent.Category, rent.Amount = 4, "aluguel", CategoryHousing, Money{Cents: 150000}

	return []Transaction{groceries, bus, salary, rent}
}

func ids(p Page) []int64 {
	out := make([]int64, 0, len(p.Items))
	for _, t := range p.Items {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryApplyFilters(t *testing.T) {
	txs := sampleHistory()
	cases := []struct {
		name string
		q    Query
		want []int64
	}{
		{"default sort is date desc", Query{}, []int64{4, 1, 2, 3}},
		{"search is case insensitive", Query{Search: "mercado"}, []int64{1}},
		{"kind", Query{Kind: KindIncome}, []int64{3}},
		{"category", Query{Category: CategoryTransport}, []int64{2}},
		{"payment method", Query{PaymentMethod: PaymentCredit}, []int64{1}},
		{"no payment method", Query{OnlyNoMethod: true}, []int64{3}},
		{"month uses home sheet", Query{Year: 2024, Month: 4}, []int64{4, 1}},
		{"march", Query{Year: 2024, Month: 3}, []int64{2, 3}},
		{"year only", Query{Year: 2023}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(tc.q.Apply(txs))
			if !equalIDs(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestQueryApplySort(t *testing.T) {
	txs := sampleHistory()
	cases := []struct {
		field SortField
		desc  bool
		want  []int64
	}{
		{SortAmount, false, []int64{2, 1, 4, 3}},
		{SortAmount, true, []int64{3, 4, 1, 2}},
		{SortDate, false, []int64{3, 2, 1, 4}},
		{SortDescription, false, []int64{4, 1, 3, 2}},
		{SortKind, false, []int64{1, 2, 4, 3}},
	}
	for _, tc := range cases {
		got := ids(Query{SortBy: tc.field, Descending: tc.desc}.Apply(txs))
		if !equalIDs(got, tc.want) {
			t.Fatalf("%s desc=%v: got %v, want %v", tc.field, tc.desc, got, tc.want)
		}
	}
}

func TestQueryApplyPagination(t *testing.T) {
	var txs []Transaction
	for i := 1; i <= 23; i++ {
		tx := debitTx(NewDate(2024, 3, 1))
		tx.ID = int64(i)
		txs = append(txs, tx)
	}
	p := Query{SortBy: SortDate, Page: 3}.Apply(txs)
	if p.Total != 23 || p.TotalPages != 3 || p.PageSize != DefaultPageSize {
		t.Fatalf("unexpected page meta %+v", p)
	}
	if !equalIDs(ids(p), []int64{21, 22, 23}) {
		t.Fatalf("unexpected page items %v", ids(p))
	}
	if p := (Query{Page: 9}).Apply(txs); len(p.Items) != 0 || p.Page != 9 {
		t.Fatalf("page past the end returned %v", ids(p))
	}
	if p := (Query{PageSize: 5, Page: 0}).Apply(txs); p.Page != 1 || len(p.Items) != 5 {
		t.Fatalf("page 0 should be the first page, got %+v", p)
	}
}

func TestQueryApplyHugePaging(t *testing.T) {
	var txs []Transaction
	for i := 1; i <= 23; i++ {
		tx := debitTx(NewDate(2024, 3, 1))
		tx.ID = int64(i)
		txs = append(txs, tx)
	}
	tests := []struct {
		name  string
		q     Query
		items int
		size  int
	}{
		{"page near max int", Query{Page: math.MaxInt64/10 + 2, PageSize: 10}, 0, 10},
		{"max int page", Query{Page: math.MaxInt, PageSize: MaxPageSize}, 0, MaxPageSize},
		{"page size above cap", Query{Page: 1, PageSize: math.MaxInt}, 23, MaxPageSize},
		{"huge page and size", Query{Page: math.MaxInt, PageSize: math.MaxInt}, 0, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.q.Apply(txs)
			if len(p.Items) != tt.items || p.PageSize != tt.size || p.Total != 23 {
				t.Fatalf("got %d items size %d total %d, want %d items size %d",
					len(p.Items), p.PageSize, p.Total, tt.items, tt.size)
			}
		})
	}
}

func TestQueryValidate(t *testing.T) {
	if err := (Query{PageSize: MaxPageSize + 1}).Validate(); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if err := (Query{PageSize: MaxPageSize}).Validate(); err != nil {
		t.Fatalf("expected ok at max page size, got %v", err)
	}
	if err := (Query{SortBy: "nope"}).Validate(); !errors.Is(err, ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
	if err := (Query{Kind: "x"}).Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if err := (Query{Month: 13}).Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if err := (Query{SortBy: SortAmount, Kind: KindExpense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}
