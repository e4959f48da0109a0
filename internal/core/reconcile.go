package core

import "fmt"

// Edit holds the fields an edit changes; nil fields keep their old value.
type Edit struct {
	Amount        *Money
	Kind          *Kind
	Description   *string
	PaymentMethod *PaymentMethod
	Category      *Category
	Date          *Date
	// CardID replaces the card reference when set. ClearCard removes it.
	CardID    *int64
	ClearCard bool
}

type MirrorActionKind int

const (
	ActionUpdateInPlace MirrorActionKind = iota
	ActionMove
)

func (k MirrorActionKind) String() string {
	if k == ActionMove {
		return "move"
	}
	return "update_in_place"
}

// MirrorAction tells the caller how to bring the mirror in line with an edit.
// For ActionUpdateInPlace From and To are the same sheet.
type MirrorAction struct {
	Kind MirrorActionKind
	From SheetKey
	To   SheetKey
}

func (a MirrorAction) String() string {
	if a.Kind == ActionMove {
		return fmt.Sprintf("move %s -> %s", a.From, a.To)
	}
	return fmt.Sprintf("update %s", a.To)
}

// ApplyEdit computes the edited transaction and the mirror action it needs.
//
// card is the card the edited transaction references, or nil when it has
// none or the card no longer exists. Billing is recomputed from the new date
// for credit transactions with a card and cleared otherwise. Credit edits
// always move, since the billing period may shift with an unchanged date.
// Other edits move only when the home sheet or the payment method changes.
func ApplyEdit(old Transaction, e Edit, card *Card) (Transaction, MirrorAction) {
	next := old
	if e.Amount != nil {
		next.Amount = *e.Amount
	}
	if e.Kind != nil {
		next.Kind = *e.Kind
	}
	if e.Description != nil {
		next.Description = *e.Description
	}
	if e.PaymentMethod != nil {
		next.PaymentMethod = *e.PaymentMethod
	}
	if e.Category != nil {
		next.Category = *e.Category
	}
	if e.Date != nil {
		next.Date = *e.Date
	}
	switch {
	case e.ClearCard:
		next.CardID = nil
	case e.CardID != nil:
		id := *e.CardID
		next.CardID = &id
	}
	AssignBilling(&next, card)

	from, to := old.HomeKey(), next.HomeKey()
	if next.PaymentMethod == PaymentCredit || from != to || next.PaymentMethod != old.PaymentMethod {
		return next, MirrorAction{Kind: ActionMove, From: from, To: to}
	}
	return next, MirrorAction{Kind: ActionUpdateInPlace, From: to, To: to}
}

// AssignBilling derives the billing period of t from card. Income never
// carries a payment method and only credit transactions keep a card.
func AssignBilling(t *Transaction, card *Card) {
	t.BillingMonth, t.BillingYear = nil, nil
	if t.Kind == KindIncome {
		t.PaymentMethod = PaymentNone
	}
	if t.PaymentMethod != PaymentCredit {
		t.CardID = nil
		return
	}
	if t.CardID == nil || card == nil {
		return
	}
	m, y := BillingPeriodFor(card.ClosingDay, t.Date)
	t.BillingMonth, t.BillingYear = &m, &y
}
