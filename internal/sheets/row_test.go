package sheets

import (
	"errors"
	"testing"
	"time"

	"financeiro/internal/core"
)

func TestRowValuesAndParse(t *testing.T) {
	tx := core.Transaction{
		ID:            42,
		Amount:        core.Money{Cents: 123456},
		Kind:          core.KindExpense,
		Description:   "notebook",
		PaymentMethod: core.PaymentCredit,
		Category:      core.CategoryEducation,
		Date:          core.NewDate(2024, 3, 26),
		RecordedAt:    time.Date(2024, 3, 26, 14, 5, 9, 123456789, time.UTC),
	}
	row := RowFromTransaction(tx)
	vals := row.Values()
	if len(vals) != Columns || len(Header) != Columns {
		t.Fatalf("expected %d columns, got %d", Columns, len(vals))
	}
	if vals[1] != 1234.56 || vals[6] != "2024-03-26" || vals[7] != "2024-03-26 14:05:09" {
		t.Fatalf("unexpected cells %v", vals)
	}

	// values come back from the API as float64 and strings
	cells := []any{float64(42), 1234.56, "gasto", "notebook", "credito", "educacao", "2024-03-26", "2024-03-26 14:05:09"}
	got, err := ParseRow(cells)
	if err != nil {
		t.Fatalf("ParseRow: %v", err)
	}
	if got != row {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, row)
	}
}

func TestParseRowLenient(t *testing.T) {
	got, err := ParseRow([]any{"7", "R$ 1.234,50", "receita", "", "", "salario", "2024-01-05"})
	if err != nil {
		t.Fatalf("ParseRow: %v", err)
	}
	if got.ID != 7 || got.Amount.Cents != 123450 || got.Kind != core.KindIncome || !got.RecordedAt.IsZero() {
		t.Fatalf("unexpected row %+v", got)
	}

	old, err := ParseRow([]any{1.0, 10.0, "gasto", "x", "debito", "outros", "2024-01-05", "2024-01-05 10:00:00.123456+00:00"})
	if err != nil || old.RecordedAt.IsZero() {
		t.Fatalf("expected long timestamp to parse, got %+v (%v)", old, err)
	}

	for _, bad := range [][]any{{}, {"abc"}, {1.5}, {1.0, 1.0, "gasto", "", "", "", "26/03/2024"}} {
		if _, err := ParseRow(bad); !errors.Is(err, ErrMalformedRow) {
			t.Fatalf("%v: expected ErrMalformedRow, got %v", bad, err)
		}
	}
}

func TestCellID(t *testing.T) {
	cases := []struct {
		in any
		id int64
		ok bool
	}{
		{float64(3), 3, true},
		{" 12 ", 12, true},
		{int64(9), 9, true},
		{"ID", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		id, ok := CellID(tc.in)
		if id != tc.id || ok != tc.ok {
			t.Fatalf("%v: got (%d, %v), want (%d, %v)", tc.in, id, ok, tc.id, tc.ok)
		}
	}
}
