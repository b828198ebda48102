package restapi

import (
	"net/http"

	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/timetable"
	"timetable.transitboard.org/internal/utils"
)

// boardHandler serves the departure board of a route for ?date= as seen at ?at=.
// Both default to now; a given instant makes its own day the default date.
func (api *RestAPI) boardHandler(w http.ResponseWriter, r *http.Request) {
	route, ok := api.lookupRoute(w, r)
	if !ok {
		return
	}

	now := api.Now()
	query := r.URL.Query()
	ref, fieldErrors := utils.ParseInstantParam(query, "at", now, now.Location(), nil)
	date, fieldErrors := utils.ParseDateParam(query, "date", models.DateOf(ref), fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	snap := api.snapshot()
	board := timetable.BuildBoard(route.ID, date, ref, snap)

	references := models.NewEmptyReferences()
	references.Routes = append(references.Routes, *route)
	if board.Day.Holiday != nil {
		references.Holidays = append(references.Holidays, *board.Day.Holiday)
	}
	api.sendResponse(w, r, models.NewEntryResponse(board, references))
}
