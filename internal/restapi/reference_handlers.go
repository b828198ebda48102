package restapi

import (
	"net/http"

	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/timetable"
	"timetable.transitboard.org/internal/utils"
)

func (api *RestAPI) timeInfosHandler(w http.ResponseWriter, r *http.Request) {
	infos := api.snapshot().TimeAnnotations
	if infos == nil {
		infos = []models.TimeAnnotation{}
	}
	api.sendResponse(w, r, models.NewListResponse(infos, models.NewEmptyReferences()))
}

func (api *RestAPI) holidaysHandler(w http.ResponseWriter, r *http.Request) {
	holidays := api.snapshot().Holidays
	if holidays == nil {
		holidays = []models.PublicHoliday{}
	}
	api.sendResponse(w, r, models.NewListResponse(holidays, models.NewEmptyReferences()))
}

// announcementsHandler lists every announcement, or with ?route= and/or ?date= only the
// ones shown on that board that day. The date defaults to today once either is given.
func (api *RestAPI) announcementsHandler(w http.ResponseWriter, r *http.Request) {
	all := api.snapshot().Announcements
	query := r.URL.Query()
	routeID := query.Get("route")

	if routeID == "" && query.Get("date") == "" {
		if all == nil {
			all = []models.Announcement{}
		}
		api.sendResponse(w, r, models.NewListResponse(all, models.NewEmptyReferences()))
		return
	}

	var fieldErrors map[string][]string
	if routeID != "" {
		if err := utils.ValidateID(routeID); err != nil {
			fieldErrors = utils.AddFieldError(fieldErrors, "route", err.Error())
		}
	}
	date, fieldErrors := utils.ParseDateParam(query, "date", api.Today(), fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	var active []models.Announcement
	if routeID != "" {
		active = timetable.ActiveAnnouncements(routeID, date, all)
	} else {
		active = []models.Announcement{}
		for i := range all {
			if all[i].ActiveOn(all[i].RouteID, date) {
				active = append(active, all[i])
			}
		}
	}
	api.sendResponse(w, r, models.NewListResponse(active, models.NewEmptyReferences()))
}

func (api *RestAPI) calendarHandler(w http.ResponseWriter, r *http.Request) {
	date, err := models.ParseDate(utils.ExtractIDFromParams(r, "date"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"date": {err.Error()}})
		return
	}

	day := timetable.Classify(date, api.snapshot().Holidays)
	references := models.NewEmptyReferences()
	if day.Holiday != nil {
		references.Holidays = append(references.Holidays, *day.Holiday)
	}
	api.sendResponse(w, r, models.NewEntryResponse(day, references))
}

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(models.NewCurrentTimeData(api.Now())))
}
