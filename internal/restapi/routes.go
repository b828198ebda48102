package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"timetable.transitboard.org/internal/webui"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// handle registers h and labels its requests with path for metrics.
func handle(router *httprouter.Router, method, path string, h http.Handler) {
	router.Handler(method, path, labelRoute(path, h))
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	handle(router, http.MethodGet, "/health", http.HandlerFunc(api.healthHandler))
	handle(router, http.MethodGet, "/metrics", api.Metrics.Handler())
	handle(router, http.MethodGet, "/debug/", webui.DebugIndexHandler(api.Application))

	handle(router, http.MethodGet, "/api/current-time", http.HandlerFunc(api.currentTimeHandler))
	handle(router, http.MethodGet, "/api/routes", http.HandlerFunc(api.routesHandler))
	handle(router, http.MethodGet, "/api/routes/:id", http.HandlerFunc(api.routeHandler))
	handle(router, http.MethodGet, "/api/routes/:id/board", http.HandlerFunc(api.boardHandler))
	handle(router, http.MethodGet, "/api/routes/:id/schedule", http.HandlerFunc(api.scheduleForDateHandler))
	handle(router, http.MethodGet, "/api/time-infos", http.HandlerFunc(api.timeInfosHandler))
	handle(router, http.MethodGet, "/api/holidays", http.HandlerFunc(api.holidaysHandler))
	handle(router, http.MethodGet, "/api/announcements", http.HandlerFunc(api.announcementsHandler))
	handle(router, http.MethodGet, "/api/calendar/:date", http.HandlerFunc(api.calendarHandler))

	api.setAdminRoutes(router)
}
