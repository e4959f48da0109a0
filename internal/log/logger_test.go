package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentResync, Output: &buf})
	l.Debug("rebuilding", FieldSheet, "03-2024")

	out := buf.String()
	if !strings.Contains(out, "component=resync") || !strings.Contains(out, "sheet=03-2024") {
		t.Fatalf("unexpected output %q", out)
	}
	if l.WithComponent(ComponentCard).Component() != ComponentCard {
		t.Fatal("WithComponent did not switch component")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()).Logger != slog.Default() {
		t.Fatal("expected the slog default")
	}
	l := New(DefaultConfig())
	if FromContext(WithContext(context.Background(), l)) != l {
		t.Fatal("logger not read back from context")
	}
}

func TestMiddlewareAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	h := Middleware(l, func(*http.Request) string { return "req-1" })(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cards/9", nil))
	out := buf.String()
	for _, want := range []string{"level=WARN", "request_id=req-1", "status_code=404", "path=/api/cards/9"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
