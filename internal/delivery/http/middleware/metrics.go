package middleware

import (
	"net/http"
	"strconv"
	"time"

	"nightout/internal/metrics"
)

// Instrument records request count and latency under the route pattern rather than the raw
// path so IDs do not blow up label cardinality.
func Instrument(m *metrics.Metrics, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		m.HTTPRequest(r.Method, route, strconv.Itoa(wrapped.status), time.Since(start))
	})
}
