package http

import (
	"context"
	"net/http"
	"time"

	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/middleware/trace"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady checks the primary store and reports middleware counters.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}
	if s.deps.Store == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.deps.Store.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	mirror := s.deps.MirrorType
	if mirror == "" {
		mirror = "none"
	}
	checks["mirror"] = mirror
	checks["queue"] = s.deps.Publisher != nil

	limits := s.limiter.GetMetrics()
	checks["rate_limiter"] = map[string]any{
		"active_clients": limits.ClientCount,
		"limited_total":  limits.TotalHits,
	}
	checks["requests_total"] = s.tracer.TotalRequests()
	checks["suspicious_total"] = s.detector.SuspiciousRequests()

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	type category struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	out := []category{}
	for _, c := range core.Categories() {
		out = append(out, category{Value: string(c), Label: c.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	key, err := s.monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := s.deps.Reports.Month(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(summary))
}

func (s *Server) handleMirrorSheets(w http.ResponseWriter, r *http.Request) {
	keys, err := s.deps.View.Sheets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheets": names})
}

func (s *Server) handleMirrorMonth(w http.ResponseWriter, r *http.Request) {
	year, err := atoi("year", r.PathValue("year"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := atoi("month", r.PathValue("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	key := core.SheetKey{Year: year, Month: month}
	rows, err := s.deps.View.Month(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheet": key.String(), "rows": toRows(rows)})
}

// handleResync queues a month rebuild when a publisher is configured and
// runs it inline otherwise.
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	var req resyncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	key := core.SheetKey{Year: req.Year, Month: req.Month}
	if err := key.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	logger := applog.FromContext(r.Context())

	if s.deps.Publisher != nil {
		id, err := s.deps.Publisher.PublishResyncMonth(r.Context(), key, trace.FromRequest(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		logger.InfoContext(r.Context(), "Resync queued",
			applog.FieldOperation, applog.OpResync,
			applog.FieldSheet, key.String(),
			applog.FieldMessageID, id)
		writeJSON(w, http.StatusAccepted, resyncResponse{Sheet: key.String(), Queued: true, MessageID: id})
		return
	}

	report, err := s.deps.Resync.Month(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resyncResponse{
		Sheet:    key.String(),
		Updated:  report.Updated,
		Appended: report.Appended,
		Deleted:  report.Deleted,
	})
}
