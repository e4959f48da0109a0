package core

import (
	"cmp"
	"errors"
	"slices"
	"strings"
)

type SortField string

const (
	SortDate          SortField = "data"
	SortAmount        SortField = "valor"
	SortDescription   SortField = "descricao"
	SortKind          SortField = "tipo"
	SortCategory      SortField = "categoria"
	SortPaymentMethod SortField = "pagamento"
	SortRecordedAt    SortField = "data_registro"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidDirection = errors.New("invalid sort direction")
	ErrInvalidPageSize  = errors.New("invalid page size (max 100)")
)

var comparators = map[SortField]func(a, b Transaction) int{
	SortDate: func(a, b Transaction) int { return a.Date.Compare(b.Date.Time) },
	SortAmount: func(a, b Transaction) int {
		return cmp.Compare(a.Amount.Cents, b.Amount.Cents)
	},
	SortDescription: func(a, b Transaction) int {
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	},
	SortKind:          func(a, b Transaction) int { return strings.Compare(string(a.Kind), string(b.Kind)) },
	SortCategory:      func(a, b Transaction) int { return strings.Compare(string(a.Category), string(b.Category)) },
	SortPaymentMethod: func(a, b Transaction) int { return strings.Compare(string(a.PaymentMethod), string(b.PaymentMethod)) },
	SortRecordedAt:    func(a, b Transaction) int { return a.RecordedAt.Compare(b.RecordedAt) },
}

func (f SortField) Validate() error {
	if _, ok := comparators[f]; !ok {
		return ErrInvalidSortField
	}
	return nil
}

// Query selects, orders and pages transactions for the history listing.
// Zero values mean "no filter".
type Query struct {
	Search        string
	Kind          Kind
	Category      Category
	PaymentMethod PaymentMethod
	// OnlyNoMethod matches transactions without a payment method, since the
	// empty PaymentMethod already means "any".
	OnlyNoMethod bool
	Year         int
	Month        int
	SortBy       SortField
	Descending   bool
	Page         int
	PageSize     int
}

// Page is one page of a history listing.
type Page struct {
	Items      []Transaction
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

func (q Query) Validate() error {
	if err := q.Kind.Validate(); q.Kind != "" && err != nil {
		return err
	}
	if err := q.Category.Validate(); err != nil {
		return err
	}
	if err := q.PaymentMethod.Validate(); err != nil {
		return err
	}
	if q.Month < 0 || q.Month > 12 {
		return ErrInvalidMonth
	}
	if q.PageSize < 0 || q.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	if q.SortBy != "" {
		if err := q.SortBy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether t passes the query filters. Year and month match
// against the transaction's home sheet.
func (q Query) Matches(t Transaction) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(q.Search)) {
		return false
	}
	if q.Kind != "" && t.Kind != q.Kind {
		return false
	}
	if q.Category != "" && t.Category != q.Category {
		return false
	}
	if q.OnlyNoMethod && t.PaymentMethod != PaymentNone {
		return false
	}
	if q.PaymentMethod != PaymentNone && t.PaymentMethod != q.PaymentMethod {
		return false
	}
	key := t.HomeKey()
	if q.Year != 0 && key.Year != q.Year {
		return false
	}
	if q.Month != 0 && key.Month != q.Month {
		return false
	}
	return true
}

// Apply filters, sorts and pages txs. Sorting defaults to date descending
// with ties broken by ID so pages are stable. Pages are 1-based; a page past
// the end returns no items.
func (q Query) Apply(txs []Transaction) Page {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if q.Matches(t) {
			out = append(out, t)
		}
	}

	field, desc := q.SortBy, q.Descending
	if field == "" {
		field, desc = SortDate, true
	}
	less := comparators[field]
	slices.SortStableFunc(out, func(a, b Transaction) int {
		c := less(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	page := q.Page
	if page < 1 {
		page = 1
	}
	total := len(out)
	pages := (total + size - 1) / size
	// Pages past the end are empty; checking first keeps (page-1)*size
	// within total.
	lo := total
	if page <= pages {
		lo = (page - 1) * size
	}
	hi := min(lo+size, total)
	return Page{
		Items:      out[lo:hi],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
	}
}
