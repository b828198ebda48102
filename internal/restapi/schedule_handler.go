package restapi

import (
	"net/http"

	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/timetable"
	"timetable.transitboard.org/internal/utils"
)

// scheduleForDateHandler returns the schedule in effect for the route on ?date=, or a
// null entry when the route has no service that day.
func (api *RestAPI) scheduleForDateHandler(w http.ResponseWriter, r *http.Request) {
	route, ok := api.lookupRoute(w, r)
	if !ok {
		return
	}

	date, fieldErrors := utils.ParseDateParam(r.URL.Query(), "date", api.Today(), nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	snap := api.snapshot()
	schedule := timetable.SelectSchedule(route.ID, date, snap.Schedules, snap.Holidays)

	references := models.NewEmptyReferences()
	if schedule != nil {
		references.TimeInfos = referencedTimeInfos(schedule, snap.TimeAnnotations)
	}
	api.sendResponse(w, r, models.NewEntryResponse(schedule, references))
}

// referencedTimeInfos keeps the annotations at least one departure of schedule points to.
func referencedTimeInfos(schedule *models.Schedule, all []models.TimeAnnotation) []models.TimeAnnotation {
	used := map[string]bool{}
	for _, d := range schedule.Departures {
		for _, id := range d.AnnotationIDs {
			used[id] = true
		}
	}
	refs := []models.TimeAnnotation{}
	for _, a := range all {
		if used[a.ID] {
			refs = append(refs, a)
		}
	}
	return refs
}
