// Package http serves the JSON API over the transaction, card and report
// services.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/middleware/ratelimit"
	"financeiro/internal/middleware/security"
	"financeiro/internal/middleware/trace"
	"financeiro/internal/services"
)

// ResyncPublisher queues a month rebuild for the worker.
type ResyncPublisher interface {
	PublishResyncMonth(ctx context.Context, key core.SheetKey, requestID string) (string, error)
}

// Pinger checks that the primary store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the server. Publisher is optional; without
// it resync requests run inline.
type Deps struct {
	Transactions *services.TransactionService
	Cards        *services.CardService
	Reports      *services.Reports
	View         *services.MirrorView
	Resync       *services.Resync
	Publisher    ResyncPublisher
	Store        Pinger
	MirrorType   string

	RateLimitPerMinute int
}

type Server struct {
	http.Server
	deps     Deps
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time
	now      func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, logger *applog.Logger, deps Deps) *Server {
	limits := ratelimit.DefaultConfig()
	if deps.RateLimitPerMinute > 0 {
		limits.RequestsPerMinute = deps.RateLimitPerMinute
	}
	s := &Server{
		deps:     deps,
		limiter:  ratelimit.NewLimiter(limits),
		detector: security.NewDetector(),
		tracer:   trace.NewMiddleware(),
		started:  time.Now(),
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/cards", s.handleListCards)
	mux.HandleFunc("POST /api/cards", s.handleCreateCard)
	mux.HandleFunc("GET /api/cards/active", s.handleListActiveCards)
	mux.HandleFunc("GET /api/cards/{id}", s.handleGetCard)
	mux.HandleFunc("PUT /api/cards/{id}", s.handleUpdateCard)
	mux.HandleFunc("DELETE /api/cards/{id}", s.handleDeleteCard)
	mux.HandleFunc("POST /api/cards/{id}/deactivate", s.handleDeactivateCard)
	mux.HandleFunc("GET /api/cards/{id}/cycle", s.handleCardCycle)
	mux.HandleFunc("GET /api/cards/{id}/statement", s.handleCardStatement)

	mux.HandleFunc("GET /api/transactions", s.handleHistory)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleEditTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/reports/month", s.handleMonthReport)
	mux.HandleFunc("GET /api/mirror/sheets", s.handleMirrorSheets)
	mux.HandleFunc("GET /api/mirror/{year}/{month}", s.handleMirrorMonth)
	mux.HandleFunc("POST /api/admin/resync", s.handleResync)

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, isWrite, s.handleRateLimited)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var h http.Handler = mux
	h = limited(h)
	h = s.detector.Middleware(h)
	h = headers.Middleware(h)
	h = applog.AccessLog(h)
	h = applog.Middleware(logger, trace.FromRequest)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func isWrite(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Shutdown stops the rate limiter cleanup and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
