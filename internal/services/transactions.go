package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/storage"
)

// ErrUnknownCard is returned when a transaction references a card that does
// not exist.
var ErrUnknownCard = errors.New("unknown card")

// NewTransaction is the input of TransactionService.Create.
type NewTransaction struct {
	Amount        core.Money
	Kind          core.Kind
	Description   string
	PaymentMethod core.PaymentMethod
	Category      core.Category
	Date          core.Date
	CardID        *int64
}

// TransactionResult is a committed transaction plus the mirror problems met
// while copying it to the spreadsheet.
type TransactionResult struct {
	Transaction core.Transaction
	Warnings    []Warning
}

// TransactionService records transactions in the primary store and mirrors
// them to their month sheet.
type TransactionService struct {
	store    TransactionStore
	cards    CardStore
	mirror   *MirrorWriter
	pageSize int
	now      func() time.Time
}

func NewTransactionService(store TransactionStore, cards CardStore, mirror *MirrorWriter) *TransactionService {
	return &TransactionService{
		store:    store,
		cards:    cards,
		mirror:   mirror,
		pageSize: core.DefaultPageSize,
		now:      time.Now,
	}
}

// SetPageSize changes the history page size used when a query sets none.
func (s *TransactionService) SetPageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// Create validates and stores a new transaction, then appends it to its home
// sheet. Income never carries a payment method or card. Mirror failures come
// back as warnings; the transaction stays saved.
func (s *TransactionService) Create(ctx context.Context, in NewTransaction) (TransactionResult, error) {
	t := core.Transaction{
		Amount:        in.Amount,
		Kind:          in.Kind,
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: in.PaymentMethod,
		Category:      in.Category,
		Date:          in.Date,
		CardID:        in.CardID,
		RecordedAt:    s.now().UTC().Truncate(time.Second),
	}

	if t.Kind == core.KindIncome {
		t.PaymentMethod = core.PaymentNone
		t.CardID = nil
	}

	var card *core.Card
	if usesCard(t.Kind, t.PaymentMethod) && t.CardID != nil {
		c, err := s.card(ctx, *t.CardID)
		if err != nil {
			return TransactionResult{}, err
		}
		if !c.Active {
			return TransactionResult{}, fmt.Errorf("card %d: %w", c.ID, core.ErrCardInactive)
		}
		card = &c
	}
	core.AssignBilling(&t, card)
	if err := t.Validate(); err != nil {
		return TransactionResult{}, err
	}

	// Save to SQLite first
	saved, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return TransactionResult{}, fmt.Errorf("save transaction: %w", err)
	}

	res := TransactionResult{Transaction: saved, Warnings: s.mirror.Append(ctx, saved)}
	s.logResult(ctx, applog.OpCreate, res)
	return res, nil
}

// Edit applies e to transaction id, stores the result and moves or rewrites
// its mirror row as needed.
func (s *TransactionService) Edit(ctx context.Context, id int64, e core.Edit) (TransactionResult, error) {
	old, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return TransactionResult{}, err
	}

	card, err := s.editCard(ctx, old, e)
	if err != nil {
		return TransactionResult{}, err
	}
	if e.Description != nil {
		d := strings.TrimSpace(*e.Description)
		e.Description = &d
	}

	next, action := core.ApplyEdit(old, e, card)
	if err := next.Validate(); err != nil {
		return TransactionResult{}, err
	}
	if err := s.store.UpdateTransaction(ctx, next); err != nil {
		return TransactionResult{}, fmt.Errorf("save transaction: %w", err)
	}

	res := TransactionResult{Transaction: next, Warnings: s.mirror.Apply(ctx, action, next)}
	s.logResult(ctx, applog.OpUpdate, res)
	return res, nil
}

// editCard resolves the card the edited transaction will reference. Keeping
// a card that was deactivated since is allowed; switching to an inactive one
// is not.
func (s *TransactionService) editCard(ctx context.Context, old core.Transaction, e core.Edit) (*core.Card, error) {
	kind, method := old.Kind, old.PaymentMethod
	if e.Kind != nil {
		kind = *e.Kind
	}
	if e.PaymentMethod != nil {
		method = *e.PaymentMethod
	}
	cardID := old.CardID
	switch {
	case e.ClearCard:
		cardID = nil
	case e.CardID != nil:
		cardID = e.CardID
	}
	if !usesCard(kind, method) || cardID == nil {
		return nil, nil
	}

	c, err := s.card(ctx, *cardID)
	if err != nil {
		return nil, err
	}
	changed := old.CardID == nil || *old.CardID != c.ID
	if changed && !c.Active {
		return nil, fmt.Errorf("card %d: %w", c.ID, core.ErrCardInactive)
	}
	return &c, nil
}

// Delete removes transaction id from the store and its row from the home
// sheet.
func (s *TransactionService) Delete(ctx context.Context, id int64) ([]Warning, error) {
	old, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}
	warnings := s.mirror.Remove(ctx, old.HomeKey(), id)
	s.logResult(ctx, applog.OpDelete, TransactionResult{Transaction: old, Warnings: warnings})
	return warnings, nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// History filters, sorts and paginates the full transaction history.
func (s *TransactionService) History(ctx context.Context, q core.Query) (core.Page, error) {
	if err := q.Validate(); err != nil {
		return core.Page{}, err
	}
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Page{}, err
	}
	return q.Apply(all), nil
}

func (s *TransactionService) card(ctx context.Context, id int64) (core.Card, error) {
	c, err := s.cards.GetCard(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Card{}, fmt.Errorf("card %d: %w", id, ErrUnknownCard)
	}
	return c, err
}

func (s *TransactionService) logResult(ctx context.Context, op string, res TransactionResult) {
	t := res.Transaction
	fields := applog.NewFields().
		WithComponent(applog.ComponentTransaction).
		WithOperation(op).
		WithTransaction(t.ID, string(t.Kind), string(t.PaymentMethod), t.Amount.Cents).
		WithSheet(t.HomeKey().String())
	fields[applog.FieldWarnings] = len(res.Warnings)
	slog.InfoContext(ctx, "Transaction committed", fields.ToSlice()...)
}

func usesCard(kind core.Kind, method core.PaymentMethod) bool {
	return kind == core.KindExpense && method == core.PaymentCredit
}
