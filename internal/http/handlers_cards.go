package http

import (
	"net/http"

	"financeiro/internal/core"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.deps.Cards.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCards(cards))
}

func (s *Server) handleListActiveCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.deps.Cards.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCards(cards))
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := req.card()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.deps.Cards.Create(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCard(created))
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.deps.Cards.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCard(c))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := req.card()
	if err != nil {
		writeError(w, r, err)
		return
	}
	c.ID = id
	updated, err := s.deps.Cards.Update(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCard(updated))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Cards.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.deps.Cards.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCard(c))
}

// handleCardCycle returns the billing cycle containing ?date=, today when
// absent.
func (s *Server) handleCardCycle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ref := core.DateOf(s.now())
	if v := r.URL.Query().Get("date"); v != "" {
		if ref, err = core.ParseDate(v); err != nil {
			writeError(w, r, badRequest("invalid date %q: want YYYY-MM-DD", v))
			return
		}
	}
	cycle, err := s.deps.Cards.Cycle(r.Context(), id, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cycleResponse{
		CardID: id,
		Start:  cycle.Start.String(),
		End:    cycle.End.String(),
		Due:    cycle.Due.String(),
	})
}

func (s *Server) handleCardStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	key, err := s.monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.deps.Cards.Statement(r.Context(), id, key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatement(st))
}
