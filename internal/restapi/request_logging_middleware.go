package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"timetable.transitboard.org/internal/logging"
)

// responseWriter records the first status written so later middleware sees what the client got.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// NewRequestLoggingMiddleware logs one line per request. The query string is never logged
// because it carries the API key.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r = r.WithContext(logging.WithLogger(r.Context(), logger))
			r, label := withRouteLabel(r)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			logging.LogHTTPRequest(logger, r.Method, r.URL.Path, wrapped.statusCode, time.Since(start),
				slog.String("route", label.pattern),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
