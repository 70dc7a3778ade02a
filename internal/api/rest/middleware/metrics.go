package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestRecorder records finished requests.
type RequestRecorder interface {
	RecordRequest(method, route string, statusCode int, duration time.Duration)
}

// Metrics records request counts and latency labelled by route pattern.
type Metrics struct {
	recorder RequestRecorder
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(recorder RequestRecorder) *Metrics {
	return &Metrics{recorder: recorder}
}

// Handle records the request once next returns. Unmatched routes share one
// label so path parameters cannot blow up cardinality.
func (m *Metrics) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.recorder.RecordRequest(r.Method, route, rec.statusCode, time.Since(start))
	})
}
