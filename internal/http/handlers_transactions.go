package http

import (
	"net/http"
	"net/url"
	"strings"

	"financeiro/internal/core"
)

// noMethod selects transactions without a payment method in history queries.
const noMethod = "nenhum"

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.transaction()
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.deps.Transactions.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWrite(res))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.deps.Transactions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransaction(t))
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch transactionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := patch.edit()
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.deps.Transactions.Edit(r.Context(), id, e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWrite(res))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := s.deps.Transactions.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, writeResponse{Warnings: warnings(ws)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := s.deps.Transactions.History(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page))
}

// parseQuery reads history filters:
//
//	?search=mercado&kind=gasto&category=alimentacao&payment_method=credito
//	&year=2024&month=3&sort=valor&order=asc&page=2&page_size=20
func parseQuery(v url.Values) (core.Query, error) {
	q := core.Query{
		Search:   strings.TrimSpace(v.Get("search")),
		Kind:     core.Kind(v.Get("kind")),
		Category: core.Category(v.Get("category")),
		SortBy:   core.SortField(v.Get("sort")),
	}
	if m := v.Get("payment_method"); m == noMethod {
		q.OnlyNoMethod = true
	} else {
		q.PaymentMethod = core.PaymentMethod(m)
	}
	switch v.Get("order") {
	case "", "desc":
		q.Descending = true
	case "asc":
	default:
		return core.Query{}, core.ErrInvalidDirection
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"year", &q.Year}, {"month", &q.Month}, {"page", &q.Page}, {"page_size", &q.PageSize},
	}
	for _, f := range ints {
		raw := v.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := atoi(f.name, raw)
		if err != nil {
			return core.Query{}, err
		}
		if n < 0 {
			return core.Query{}, badRequest("invalid %s %d: must not be negative", f.name, n)
		}
		*f.dst = n
	}
	return q, nil
}
