package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler keeps the last record so tests can inspect its attributes.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func (h *capturingHandler) attrs() map[string]slog.Value {
	out := make(map[string]slog.Value)
	h.record.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

func TestLoggingMiddleware_RouteAndLevel(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		path      string
		status    int
		body      string
		wantRoute string
		wantLevel slog.Level
	}{
		{"matched ok", "GET /events/{eventID}", "/events/ev-1", http.StatusOK, `{"data":{}}`, "GET /events/{eventID}", slog.LevelInfo},
		{"client error", "POST /events/{eventID}/invitations", "/events/ev-1/invitations", http.StatusTooManyRequests, "", "POST /events/{eventID}/invitations", slog.LevelWarn},
		{"server error", "POST /plans/{planID}/optimize", "/plans/p-1/optimize", http.StatusInternalServerError, "", "POST /plans/{planID}/optimize", slog.LevelError},
		{"no route", "", "/nope", http.StatusNotFound, "", "unmatched", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured capturingHandler
			mux := http.NewServeMux()
			if tt.pattern != "" {
				mux.HandleFunc(tt.pattern, func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				})
			}
			method, _, ok := strings.Cut(tt.pattern, " ")
			if !ok {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()

			LoggingMiddleware(slog.New(&captured), mux).ServeHTTP(rr, req)

			require.Equal(t, tt.status, rr.Code)
			require.Equal(t, "request", captured.record.Message)
			assert.Equal(t, tt.wantLevel, captured.record.Level)
			attrs := captured.attrs()
			assert.Equal(t, tt.wantRoute, attrs["route"].String())
			assert.Equal(t, tt.path, attrs["path"].String())
			assert.Equal(t, method, attrs["method"].String())
			assert.Equal(t, int64(tt.status), attrs["status"].Int64())
			assert.Equal(t, int64(rr.Body.Len()), attrs["bytes"].Int64())
			assert.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
		})
	}
}
