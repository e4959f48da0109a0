package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"financeiro/internal/amqp"
	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/middleware/trace"
	"financeiro/internal/services"
	"financeiro/internal/sheets"
	"financeiro/internal/storage"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed request: bad JSON, a bad path or query value.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

var validationErrors = []error{
	core.ErrInvalidDay, core.ErrInvalidMonth, core.ErrInvalidDate,
	core.ErrInvalidAmount, core.ErrInvalidKind, core.ErrInvalidPaymentMethod,
	core.ErrInvalidCategory, core.ErrIncomeWithPaymentMethod, core.ErrDescriptionTooLong,
	core.ErrEmptyCardName, core.ErrCardNameTooLong, core.ErrInvalidClosingDay,
	core.ErrInvalidDueDay, core.ErrCardInactive, core.ErrBillingWithoutCredit,
	core.ErrInvalidSortField, core.ErrInvalidDirection, core.ErrInvalidPageSize, services.ErrUnknownCard,
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sheets.ErrNotConfigured), errors.Is(err, amqp.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status. Internal errors are logged and their
// message withheld.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg, RequestID: trace.FromRequest(r)})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorResponse{
		Error:     "rate limit exceeded, try again later",
		RequestID: trace.FromRequest(r),
	})
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("empty request body")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	if dec.More() {
		return badRequest("invalid JSON body: trailing data")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

func atoi(name, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, badRequest("invalid %s %q: must be a number", name, v)
	}
	return n, nil
}

// monthKey reads year and month from the query, defaulting each to the
// current month.
func (s *Server) monthKey(r *http.Request) (core.SheetKey, error) {
	key := core.SheetKey{Year: s.now().Year(), Month: int(s.now().Month())}
	q := r.URL.Query()
	var err error
	if v := q.Get("year"); v != "" {
		if key.Year, err = atoi("year", v); err != nil {
			return core.SheetKey{}, err
		}
	}
	if v := q.Get("month"); v != "" {
		if key.Month, err = atoi("month", v); err != nil {
			return core.SheetKey{}, err
		}
	}
	return key, key.Validate()
}

func parseAmount(s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	return core.ParseCurrencyStrict(s)
}
