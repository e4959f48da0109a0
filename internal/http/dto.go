package http

import (
	"time"

	"financeiro/internal/core"
	"financeiro/internal/services"
	"financeiro/internal/sheets"
)

// moneyJSON carries an amount both formatted and in cents.
type moneyJSON struct {
	Text  string `json:"text"`
	Cents int64  `json:"cents"`
}

func money(m core.Money) moneyJSON {
	return moneyJSON{Text: core.FormatCurrency(m), Cents: m.Cents}
}

type cardRequest struct {
	Name        string `json:"name"`
	ClosingDay  int    `json:"closing_day"`
	DueDay      int    `json:"due_day"`
	CreditLimit string `json:"credit_limit"`
}

func (req cardRequest) card() (core.Card, error) {
	limit, err := parseAmount(req.CreditLimit)
	if err != nil {
		return core.Card{}, err
	}
	return core.Card{
		Name:        req.Name,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
		CreditLimit: limit,
	}, nil
}

type cardResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ClosingDay  int       `json:"closing_day"`
	DueDay      int       `json:"due_day"`
	CreditLimit moneyJSON `json:"credit_limit"`
	Active      bool      `json:"active"`
}

func toCard(c core.Card) cardResponse {
	return cardResponse{
		ID:          c.ID,
		Name:        c.Name,
		ClosingDay:  c.ClosingDay,
		DueDay:      c.DueDay,
		CreditLimit: money(c.CreditLimit),
		Active:      c.Active,
	}
}

func toCards(cs []core.Card) []cardResponse {
	out := make([]cardResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCard(c))
	}
	return out
}

type cycleResponse struct {
	CardID int64  `json:"card_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Due    string `json:"due"`
}

type statementResponse struct {
	CardID       int64                 `json:"card_id"`
	Sheet        string                `json:"sheet"`
	Due          string                `json:"due"`
	Total        moneyJSON             `json:"total"`
	Available    moneyJSON             `json:"available"`
	Transactions []transactionResponse `json:"transactions"`
}

func toStatement(st core.Statement) statementResponse {
	return statementResponse{
		CardID:       st.CardID,
		Sheet:        st.Key.String(),
		Due:          st.Due.String(),
		Total:        money(st.Total),
		Available:    money(st.Available),
		Transactions: toTransactions(st.Transactions),
	}
}

type transactionRequest struct {
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	PaymentMethod string `json:"payment_method"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	CardID        *int64 `json:"card_id"`
}

func (req transactionRequest) transaction() (services.NewTransaction, error) {
	amount, err := core.ParseCurrencyStrict(req.Amount)
	if err != nil {
		return services.NewTransaction{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return services.NewTransaction{}, err
	}
	return services.NewTransaction{
		Amount:        amount,
		Kind:          core.Kind(req.Kind),
		Description:   req.Description,
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
		Category:      core.Category(req.Category),
		Date:          date,
		CardID:        req.CardID,
	}, nil
}

// transactionPatch is an edit; absent fields keep their value.
type transactionPatch struct {
	Amount        *string `json:"amount"`
	Kind          *string `json:"kind"`
	Description   *string `json:"description"`
	PaymentMethod *string `json:"payment_method"`
	Category      *string `json:"category"`
	Date          *string `json:"date"`
	CardID        *int64  `json:"card_id"`
	ClearCard     bool    `json:"clear_card"`
}

func (p transactionPatch) edit() (core.Edit, error) {
	e := core.Edit{
		Description: p.Description,
		CardID:      p.CardID,
		ClearCard:   p.ClearCard,
	}
	if p.Amount != nil {
		m, err := core.ParseCurrencyStrict(*p.Amount)
		if err != nil {
			return core.Edit{}, err
		}
		e.Amount = &m
	}
	if p.Date != nil {
		d, err := core.ParseDate(*p.Date)
		if err != nil {
			return core.Edit{}, err
		}
		e.Date = &d
	}
	if p.Kind != nil {
		k := core.Kind(*p.Kind)
		e.Kind = &k
	}
	if p.PaymentMethod != nil {
		m := core.PaymentMethod(*p.PaymentMethod)
		e.PaymentMethod = &m
	}
	if p.Category != nil {
		c := core.Category(*p.Category)
		e.Category = &c
	}
	return e, nil
}

type transactionResponse struct {
	ID            int64     `json:"id"`
	Amount        moneyJSON `json:"amount"`
	Kind          string    `json:"kind"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"payment_method"`
	Category      string    `json:"category"`
	Date          string    `json:"date"`
	RecordedAt    time.Time `json:"recorded_at"`
	CardID        *int64    `json:"card_id,omitempty"`
	BillingMonth  *int      `json:"billing_month,omitempty"`
	BillingYear   *int      `json:"billing_year,omitempty"`
	Sheet         string    `json:"sheet"`
}

func toTransaction(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Amount:        money(t.Amount),
		Kind:          string(t.Kind),
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		Category:      string(t.Category),
		Date:          t.Date.String(),
		RecordedAt:    t.RecordedAt,
		CardID:        t.CardID,
		BillingMonth:  t.BillingMonth,
		BillingYear:   t.BillingYear,
		Sheet:         t.HomeKey().String(),
	}
}

func toTransactions(ts []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransaction(t))
	}
	return out
}

type writeResponse struct {
	Transaction *transactionResponse `json:"transaction,omitempty"`
	Warnings    []services.Warning   `json:"warnings"`
}

func toWrite(res services.TransactionResult) writeResponse {
	t := toTransaction(res.Transaction)
	return writeResponse{Transaction: &t, Warnings: warnings(res.Warnings)}
}

func warnings(ws []services.Warning) []services.Warning {
	if ws == nil {
		return []services.Warning{}
	}
	return ws
}

type pageResponse struct {
	Items      []transactionResponse `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

func toPage(p core.Page) pageResponse {
	return pageResponse{
		Items:      toTransactions(p.Items),
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

type categoryTotalJSON struct {
	Category string    `json:"category"`
	Label    string    `json:"label"`
	Amount   moneyJSON `json:"amount"`
}

type cardTotalJSON struct {
	CardID int64     `json:"card_id"`
	Amount moneyJSON `json:"amount"`
}

type summaryResponse struct {
	Sheet      string              `json:"sheet"`
	Income     moneyJSON           `json:"income"`
	Expenses   moneyJSON           `json:"expenses"`
	Balance    moneyJSON           `json:"balance"`
	Count      int                 `json:"count"`
	ByCategory []categoryTotalJSON `json:"by_category"`
	ByCard     []cardTotalJSON     `json:"by_card"`
}

func toSummary(s core.MonthSummary) summaryResponse {
	out := summaryResponse{
		Sheet:      s.Key.String(),
		Income:     money(s.Income),
		Expenses:   money(s.Expenses),
		Balance:    money(s.Balance),
		Count:      s.Count,
		ByCategory: make([]categoryTotalJSON, 0, len(s.ByCategory)),
		ByCard:     make([]cardTotalJSON, 0, len(s.ByCard)),
	}
	for _, c := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryTotalJSON{
			Category: string(c.Category), Label: c.Category.Label(), Amount: money(c.Amount),
		})
	}
	for _, c := range s.ByCard {
		out.ByCard = append(out.ByCard, cardTotalJSON{CardID: c.CardID, Amount: money(c.Amount)})
	}
	return out
}

type rowResponse struct {
	ID            int64     `json:"id"`
	Amount        moneyJSON `json:"amount"`
	Kind          string    `json:"kind"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"payment_method"`
	Category      string    `json:"category"`
	Date          string    `json:"date"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func toRows(rows []sheets.Row) []rowResponse {
	out := make([]rowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowResponse{
			ID:            r.ID,
			Amount:        money(r.Amount),
			Kind:          string(r.Kind),
			Description:   r.Description,
			PaymentMethod: string(r.PaymentMethod),
			Category:      string(r.Category),
			Date:          r.Date.String(),
			RecordedAt:    r.RecordedAt,
		})
	}
	return out
}

type resyncRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type resyncResponse struct {
	Sheet     string `json:"sheet"`
	Queued    bool   `json:"queued"`
	MessageID string `json:"message_id,omitempty"`
	Updated   int    `json:"updated"`
	Appended  int    `json:"appended"`
	Deleted   int    `json:"deleted"`
}
