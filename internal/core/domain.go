package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "receita"
	KindExpense Kind = "gasto"

	PaymentNone   PaymentMethod = ""
	PaymentCredit PaymentMethod = "credito"
	PaymentDebit  PaymentMethod = "debito"
)

const (
	CategoryNone      Category = ""
	CategoryFood      Category = "alimentacao"
	CategoryTransport Category = "transporte"
	CategoryHousing   Category = "moradia"
	CategorySalary    Category = "salario"
	CategoryLeisure   Category = "lazer"
	CategoryEducation Category = "educacao"
	CategoryOther     Category = "outros"
)

const (
	maxDescriptionChars = 250
	maxCardNameChars    = 100
	dateLayout          = "2006-01-02"
)

type (
	Kind          string
	PaymentMethod string
	Category      string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Card struct {
		ID          int64
		Name        string
		ClosingDay  int // day of month the statement closes
		DueDay      int // day of month the statement is due
		CreditLimit Money
		Active      bool
	}

	Transaction struct {
		ID            int64
		Amount        Money
		Kind          Kind
		Description   string
		PaymentMethod PaymentMethod
		Category      Category
		Date          Date
		RecordedAt    time.Time
		CardID        *int64
		BillingMonth  *int
		BillingYear   *int
	}
)

var (
	ErrInvalidDay              = errors.New("invalid day")
	ErrInvalidMonth            = errors.New("invalid month")
	ErrInvalidDate             = errors.New("invalid date")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidKind             = errors.New("invalid transaction type")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrInvalidCategory         = errors.New("invalid category")
	ErrIncomeWithPaymentMethod = errors.New("income cannot have a payment method")
	ErrDescriptionTooLong      = errors.New("description too long (max 250 characters)")
	ErrEmptyCardName           = errors.New("empty card name")
	ErrCardNameTooLong         = errors.New("card name too long (max 100 characters)")
	ErrInvalidClosingDay       = errors.New("invalid closing day")
	ErrInvalidDueDay           = errors.New("invalid due day")
	ErrCardInactive            = errors.New("card is inactive")
	ErrBillingWithoutCredit    = errors.New("billing period requires a credit card transaction")
)

// Categories lists the closed set of transaction categories.
func Categories() []Category {
	return []Category{
		CategoryFood, CategoryTransport, CategoryHousing, CategorySalary,
		CategoryLeisure, CategoryEducation, CategoryOther,
	}
}

// Label returns the human readable category name used in reports.
func (c Category) Label() string {
	switch c {
	case CategoryFood:
		return "Alimentação"
	case CategoryTransport:
		return "Transporte"
	case CategoryHousing:
		return "Moradia"
	case CategorySalary:
		return "Salário"
	case CategoryLeisure:
		return "Lazer"
	case CategoryEducation:
		return "Educação"
	case CategoryOther:
		return "Outros"
	case CategoryNone:
		return "Sem categoria"
	}
	return string(c)
}

func (c Category) Validate() error {
	if c == CategoryNone {
		return nil
	}
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return ErrInvalidCategory
}

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense:
		return nil
	}
	return ErrInvalidKind
}

func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentNone, PaymentCredit, PaymentDebit:
		return nil
	}
	return ErrInvalidPaymentMethod
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 || m.Cents > maxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (c Card) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyCardName
	}
	if len([]rune(name)) > maxCardNameChars {
		return ErrCardNameTooLong
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrInvalidClosingDay
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if err := c.CreditLimit.Validate(); err != nil {
		return err
	}
	return nil
}

// HasBilling reports whether the transaction carries a billing period.
func (t Transaction) HasBilling() bool {
	return t.BillingMonth != nil && t.BillingYear != nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.PaymentMethod.Validate(); err != nil {
		return err
	}
	if t.Kind == KindIncome && t.PaymentMethod != PaymentNone {
		return ErrIncomeWithPaymentMethod
	}
	if err := t.Category.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len([]rune(t.Description)) > maxDescriptionChars {
		return ErrDescriptionTooLong
	}
	if t.HasBilling() {
		if t.PaymentMethod != PaymentCredit || t.CardID == nil {
			return ErrBillingWithoutCredit
		}
		if *t.BillingMonth < 1 || *t.BillingMonth > 12 {
			return ErrInvalidMonth
		}
	}
	return nil
}
