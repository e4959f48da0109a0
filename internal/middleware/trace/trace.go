// Package trace assigns request IDs.
package trace

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

type contextKey struct{}

// Middleware tags every request with an ID and counts requests.
type Middleware struct {
	total atomic.Int64
}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Middleware reuses a well-formed incoming X-Request-ID or generates one,
// stores it in the request context and echoes it in the response.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = GenerateRequestID()
		}
		m.total.Add(1)
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// FromRequest is GetRequestID for a request.
func FromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}

// TotalRequests returns the number of traced requests.
func (m *Middleware) TotalRequests() int64 {
	return m.total.Load()
}
