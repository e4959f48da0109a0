package sheets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"financeiro/internal/core"
)

// Header is the first row of every month sheet.
var Header = []string{
	"ID", "Valor", "Tipo", "Descrição",
	"Método Pagamento", "Categoria", "Data", "Data Registro",
}

// Columns is the number of columns a row spans.
const Columns = 8

const (
	DateLayout     = "2006-01-02"
	RecordedLayout = "2006-01-02 15:04:05"
)

var ErrMalformedRow = errors.New("malformed sheet row")

// Row is one transaction as stored in a month sheet.
type Row struct {
	ID            int64
	Amount        core.Money
	Kind          core.Kind
	Description   string
	PaymentMethod core.PaymentMethod
	Category      core.Category
	Date          core.Date
	RecordedAt    time.Time
}

// RowFromTransaction renders t as a sheet row.
func RowFromTransaction(t core.Transaction) Row {
	return Row{
		ID:            t.ID,
		Amount:        t.Amount,
		Kind:          t.Kind,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
		Category:      t.Category,
		Date:          t.Date,
		RecordedAt:    t.RecordedAt.UTC().Truncate(time.Second),
	}
}

// Values returns the cell values in header order. Valor is numeric so the
// sheet can sum it.
func (r Row) Values() []any {
	return []any{
		r.ID,
		r.Amount.Float(),
		string(r.Kind),
		r.Description,
		string(r.PaymentMethod),
		string(r.Category),
		r.Date.Format(DateLayout),
		r.RecordedAt.UTC().Format(RecordedLayout),
	}
}

// HeaderValues returns Header as cell values.
func HeaderValues() []any {
	out := make([]any, len(Header))
	for i, h := range Header {
		out[i] = h
	}
	return out
}

// ParseRow reads a row of cell values. Cells may be numbers or strings
// depending on how they were written; Valor also accepts "R$ 1.234,56" text.
func ParseRow(cells []any) (Row, error) {
	if len(cells) == 0 {
		return Row{}, fmt.Errorf("%w: empty row", ErrMalformedRow)
	}
	id, ok := CellID(cells[0])
	if !ok {
		return Row{}, fmt.Errorf("%w: bad ID %v", ErrMalformedRow, cells[0])
	}
	r := Row{ID: id}
	r.Amount = cellMoney(cell(cells, 1))
	r.Kind = core.Kind(cellString(cell(cells, 2)))
	r.Description = cellString(cell(cells, 3))
	r.PaymentMethod = core.PaymentMethod(cellString(cell(cells, 4)))
	r.Category = core.Category(cellString(cell(cells, 5)))
	if s := cellString(cell(cells, 6)); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return Row{}, fmt.Errorf("%w: bad date %q", ErrMalformedRow, s)
		}
		r.Date = d
	}
	if s := cellString(cell(cells, 7)); s != "" {
		if t, err := parseRecorded(s); err == nil {
			r.RecordedAt = t
		}
	}
	return r, nil
}

// CellID reads the ID column; it accepts both numeric and text cells.
func CellID(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return id, err == nil
	}
	return 0, false
}

func cell(cells []any, i int) any {
	if i < len(cells) {
		return cells[i]
	}
	return nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func cellMoney(v any) core.Money {
	switch x := v.(type) {
	case float64:
		return core.AmountFromFloat(x)
	case int64:
		return core.Money{Cents: x * 100}
	case string:
		return core.ParseCurrency(x)
	}
	return core.Money{}
}

// parseRecorded accepts the current layout and the longer timestamps older
// rows were written with.
func parseRecorded(s string) (time.Time, error) {
	for _, layout := range []string{RecordedLayout, "2006-01-02 15:04:05.999999-07:00", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedRow, s)
}
