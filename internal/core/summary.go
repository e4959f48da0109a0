package core

import (
	"cmp"
	"slices"
)

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category Category
	Amount   Money
}

// CardTotal is the credit spending billed to one card.
type CardTotal struct {
	CardID int64
	Amount Money
}

// MonthSummary aggregates the transactions homed in one month sheet.
type MonthSummary struct {
	Key        SheetKey
	Income     Money
	Expenses   Money
	Balance    Money
	Count      int
	ByCategory []CategoryTotal
	ByCard     []CardTotal
}

// Summarize totals the transactions whose home sheet is key. Categories are
// ordered by amount descending, cards by ID.
func Summarize(key SheetKey, txs []Transaction) MonthSummary {
	s := MonthSummary{Key: key}
	byCat := map[Category]int64{}
	byCard := map[int64]int64{}
	for _, t := range txs {
		if t.HomeKey() != key {
			continue
		}
		s.Count++
		switch t.Kind {
		case KindIncome:
			s.Income = s.Income.Add(t.Amount)
		case KindExpense:
			s.Expenses = s.Expenses.Add(t.Amount)
			byCat[t.Category] += t.Amount.Cents
		}
		if t.PaymentMethod == PaymentCredit && t.CardID != nil {
			byCard[*t.CardID] += t.Amount.Cents
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)

	for c, cents := range byCat {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: c, Amount: Money{Cents: cents}})
	}
	slices.SortFunc(s.ByCategory, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	for id, cents := range byCard {
		s.ByCard = append(s.ByCard, CardTotal{CardID: id, Amount: Money{Cents: cents}})
	}
	slices.SortFunc(s.ByCard, func(a, b CardTotal) int { return cmp.Compare(a.CardID, b.CardID) })
	return s
}

// Statement is the set of credit purchases billed to a card for one month.
type Statement struct {
	CardID       int64
	Key          SheetKey
	Due          Date
	Transactions []Transaction
	Total        Money
	// Available is the credit limit minus the total; negative when over.
	Available Money
}

// BuildStatement collects the credit transactions of card billed to key.
func BuildStatement(card Card, key SheetKey, txs []Transaction) Statement {
	st := Statement{CardID: card.ID, Key: key, Due: DueDate(card, key.Month, key.Year)}
	for _, t := range txs {
		if t.CardID == nil || *t.CardID != card.ID || !t.HasBilling() || t.HomeKey() != key {
			continue
		}
		st.Transactions = append(st.Transactions, t)
		st.Total = st.Total.Add(t.Amount)
	}
	st.Available = card.CreditLimit.Sub(st.Total)
	return st
}
