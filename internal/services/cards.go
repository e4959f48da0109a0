package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financeiro/internal/core"
	applog "financeiro/internal/log"
)

// Cycle is the billing cycle of a card that contains a reference date.
type Cycle struct {
	Start core.Date
	End   core.Date
	Due   core.Date
}

// CardService manages credit cards and their statements.
type CardService struct {
	cards CardStore
	txs   TransactionStore
}

func NewCardService(cards CardStore, txs TransactionStore) *CardService {
	return &CardService{cards: cards, txs: txs}
}

// Create stores a new active card.
func (s *CardService) Create(ctx context.Context, c core.Card) (core.Card, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Active = true
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	saved, err := s.cards.CreateCard(ctx, c)
	if err != nil {
		return core.Card{}, fmt.Errorf("save card: %w", err)
	}
	s.log(ctx, applog.OpCreate, saved)
	return saved, nil
}

// Update replaces the name, cycle days and limit of card c.ID. The active
// flag is kept and existing transactions keep their billing periods.
func (s *CardService) Update(ctx context.Context, c core.Card) (core.Card, error) {
	existing, err := s.cards.GetCard(ctx, c.ID)
	if err != nil {
		return core.Card{}, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Active = existing.Active
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	if err := s.cards.UpdateCard(ctx, c); err != nil {
		return core.Card{}, fmt.Errorf("save card: %w", err)
	}
	s.log(ctx, applog.OpUpdate, c)
	return c, nil
}

// Deactivate hides card id from new transactions.
func (s *CardService) Deactivate(ctx context.Context, id int64) (core.Card, error) {
	c, err := s.cards.GetCard(ctx, id)
	if err != nil {
		return core.Card{}, err
	}
	if !c.Active {
		return c, nil
	}
	c.Active = false
	if err := s.cards.UpdateCard(ctx, c); err != nil {
		return core.Card{}, fmt.Errorf("save card: %w", err)
	}
	s.log(ctx, applog.OpDeactivate, c)
	return c, nil
}

// Delete removes card id. Its transactions lose the card reference.
func (s *CardService) Delete(ctx context.Context, id int64) error {
	if err := s.cards.DeleteCard(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Card deleted",
		applog.FieldComponent, applog.ComponentCard,
		applog.FieldCardID, id)
	return nil
}

func (s *CardService) Get(ctx context.Context, id int64) (core.Card, error) {
	return s.cards.GetCard(ctx, id)
}

func (s *CardService) ListActive(ctx context.Context) ([]core.Card, error) {
	return s.cards.ListCards(ctx, true)
}

func (s *CardService) ListAll(ctx context.Context) ([]core.Card, error) {
	return s.cards.ListCards(ctx, false)
}

// Cycle returns the billing cycle of card id containing ref, with the due
// date of the statement it closes.
func (s *CardService) Cycle(ctx context.Context, id int64, ref core.Date) (Cycle, error) {
	c, err := s.cards.GetCard(ctx, id)
	if err != nil {
		return Cycle{}, err
	}
	start, end := core.CurrentCycleBounds(c.ClosingDay, ref)
	return Cycle{Start: start, End: end, Due: core.DueDate(c, end.Month(), end.Year())}, nil
}

// Statement collects the credit purchases of card id billed to key.
func (s *CardService) Statement(ctx context.Context, id int64, key core.SheetKey) (core.Statement, error) {
	if err := key.Validate(); err != nil {
		return core.Statement{}, err
	}
	c, err := s.cards.GetCard(ctx, id)
	if err != nil {
		return core.Statement{}, err
	}
	txs, err := s.txs.ListByCard(ctx, id)
	if err != nil {
		return core.Statement{}, err
	}
	return core.BuildStatement(c, key, txs), nil
}

func (s *CardService) log(ctx context.Context, op string, c core.Card) {
	slog.InfoContext(ctx, "Card saved",
		applog.FieldComponent, applog.ComponentCard,
		applog.FieldOperation, op,
		applog.FieldCardID, c.ID,
		"closing_day", c.ClosingDay,
		"due_day", c.DueDay,
		"active", c.Active)
}
