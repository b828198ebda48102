package restapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORSMiddleware allows browser boards on the given origins to read the API and
// admin clients to write to it. Preflight requests are answered here.
func NewCORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         86400, // 24 hours
	})
}
