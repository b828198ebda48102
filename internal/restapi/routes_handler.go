package restapi

import (
	"net/http"

	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/utils"
)

func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	routes := api.snapshot().Routes
	if routes == nil {
		routes = []models.Route{}
	}
	api.sendResponse(w, r, models.NewListResponse(routes, models.NewEmptyReferences()))
}

func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	route, ok := api.lookupRoute(w, r)
	if !ok {
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(route, models.NewEmptyReferences()))
}

// lookupRoute resolves the :id path parameter against the live snapshot and writes the
// 400 or 404 response itself when it cannot.
func (api *RestAPI) lookupRoute(w http.ResponseWriter, r *http.Request) (*models.Route, bool) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return nil, false
	}

	route, ok := api.snapshot().FindRoute(id)
	if !ok {
		api.sendNotFound(w, r)
		return nil, false
	}
	return route, true
}
