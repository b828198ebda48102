package restapi

import (
	"net/http"
	"strings"

	"timetable.transitboard.org/internal/appconf"
)

const (
	apiContentSecurityPolicy   = "default-src 'none'; frame-ancestors 'none';"
	debugContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';"
)

// WithSecurityHeaders wraps the given handler with security headers middleware.
// HSTS is left off in development so local plain-HTTP servers stay reachable.
func (api *RestAPI) WithSecurityHeaders(handler http.Handler) http.Handler {
	return securityHeaders(api.Config.Env != appconf.Development, handler)
}

func securityHeaders(strictTransport bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if strings.HasPrefix(r.URL.Path, "/debug/") {
			h.Set("Content-Security-Policy", debugContentSecurityPolicy)
		} else {
			h.Set("Content-Security-Policy", apiContentSecurityPolicy)
		}
		if strictTransport {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
