package restapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"timetable.transitboard.org/internal/app"
	"timetable.transitboard.org/internal/models"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	if app.Logger == nil {
		app.Logger = slog.Default()
	}
	validKey := func(key string) bool { return !app.IsInvalidAPIKey(key) }
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second, validKey),
	}
}

// Handler returns the router wrapped in the middleware chain, outermost first:
// security headers, CORS, request logging, metrics, gzip, rate limit.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		api.serverErrorResponse(w, r, fmt.Errorf("panic: %v", v))
	}
	api.SetRoutes(router)

	var handler http.Handler = router
	handler = api.rateLimiter.Handler(handler)
	handler = CompressionMiddleware(handler)
	handler = NewMetricsMiddleware(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = NewCORSMiddleware(api.Config.CORSOrigins)(handler)
	return api.WithSecurityHeaders(handler)
}

// Close stops background work owned by the API.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}

// snapshot never returns nil so handlers can read collections directly.
func (api *RestAPI) snapshot() *models.Snapshot {
	if api.Snapshots != nil {
		if snap := api.Snapshots.Snapshot(); snap != nil {
			return snap
		}
	}
	return &models.Snapshot{}
}
