package core

import "time"

// BillingPeriodFor returns the statement (month, year) a credit purchase made
// on date belongs to for a card closing on closingDay.
//
// Purchases on or before the closing day fall into the same month's statement,
// later ones into the next month's. A closing day beyond the end of a short
// month is clamped to that month's last day.
func BillingPeriodFor(closingDay int, date Date) (month, year int) {
	month, year = date.Month(), date.Year()
	if date.Day() <= clampDay(year, month, closingDay) {
		return month, year
	}
	if month == 12 {
		return 1, year + 1
	}
	return month + 1, year
}

// CurrentCycleBounds returns the first and last day of the billing cycle that
// contains ref.
func CurrentCycleBounds(closingDay int, ref Date) (start, end Date) {
	y, m := ref.Year(), time.Month(ref.Month())
	if ref.Day() <= clampDay(y, int(m), closingDay) {
		py, pm := addMonths(y, m, -1)
		start = closingDate(py, pm, closingDay).addDays(1)
		end = closingDate(y, m, closingDay)
		return start, end
	}
	ny, nm := addMonths(y, m, 1)
	start = closingDate(y, m, closingDay).addDays(1)
	end = closingDate(ny, nm, closingDay)
	return start, end
}

// DueDate returns the payment due date of the statement for (month, year).
// A due day on or before the closing day falls in the following month.
func DueDate(c Card, month, year int) Date {
	y, m := year, time.Month(month)
	if c.DueDay <= c.ClosingDay {
		y, m = addMonths(y, m, 1)
	}
	return closingDate(y, m, c.DueDay)
}

func closingDate(year int, month time.Month, day int) Date {
	return NewDate(year, int(month), clampDay(year, int(month), day))
}

func (d Date) addDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func addMonths(year int, month time.Month, n int) (int, time.Month) {
	t := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year, month, day int) int {
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}
