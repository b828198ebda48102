package restapi

import (
	"context"
	"net/http"
	"time"

	"timetable.transitboard.org/internal/metrics"
)

type routeLabelKey struct{}

// routeLabel is filled in by the matched route so requests are counted per pattern,
// not per concrete path.
type routeLabel struct {
	pattern string
}

const unmatchedRoute = "unmatched"

// withRouteLabel reuses a label installed by an outer middleware.
func withRouteLabel(r *http.Request) (*http.Request, *routeLabel) {
	if label, ok := r.Context().Value(routeLabelKey{}).(*routeLabel); ok {
		return r, label
	}
	label := &routeLabel{pattern: unmatchedRoute}
	return r.WithContext(context.WithValue(r.Context(), routeLabelKey{}, label)), label
}

// NewMetricsMiddleware counts requests and observes their latency.
func NewMetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, label := withRouteLabel(r)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			m.ObserveRequest(label.pattern, r.Method, wrapped.statusCode, time.Since(start))
		})
	}
}

func labelRoute(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if label, ok := r.Context().Value(routeLabelKey{}).(*routeLabel); ok {
			label.pattern = pattern
		}
		next.ServeHTTP(w, r)
	})
}
