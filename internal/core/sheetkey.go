package core

import (
	"fmt"
	"time"
)

// SheetKey identifies one month sheet of the mirror.
type SheetKey struct {
	Year  int
	Month int
}

func (k SheetKey) Validate() error {
	if k.Month < 1 || k.Month > 12 {
		return ErrInvalidMonth
	}
	if k.Year < 1 {
		return ErrInvalidDate
	}
	return nil
}

// String returns the sheet name, formatted as MM-YYYY.
func (k SheetKey) String() string {
	return fmt.Sprintf("%02d-%04d", k.Month, k.Year)
}

// ParseSheetKey reads a MM-YYYY sheet name.
func ParseSheetKey(name string) (SheetKey, error) {
	t, err := time.Parse("01-2006", name)
	if err != nil {
		return SheetKey{}, fmt.Errorf("parse sheet name %q: %w", name, ErrInvalidDate)
	}
	return SheetKey{Year: t.Year(), Month: int(t.Month())}, nil
}

// HomeKey returns the sheet a transaction is mirrored to: its billing period
// when set, otherwise the month of its date.
func (t Transaction) HomeKey() SheetKey {
	if t.HasBilling() {
		return SheetKey{Year: *t.BillingYear, Month: *t.BillingMonth}
	}
	return SheetKey{Year: t.Date.Year(), Month: t.Date.Month()}
}
