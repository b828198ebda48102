package restapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/julienschmidt/httprouter"
	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/utils"
	"timetable.transitboard.org/scheduledb"
)

func (api *RestAPI) setAdminRoutes(router *httprouter.Router) {
	store := api.Store

	registerResource(api, router, "/api/admin/routes", resource[models.Route]{
		name: "route",
		sanitize: func(rt *models.Route) {
			rt.Name = utils.SanitizeInput(rt.Name)
			rt.Code = utils.SanitizeInput(rt.Code)
			rt.Description = utils.SanitizeInput(rt.Description)
			rt.Origin = utils.SanitizeInput(rt.Origin)
			rt.Destination = utils.SanitizeInput(rt.Destination)
		},
		validate: (*models.Route).Validate,
		setID:    func(rt *models.Route, id string) { rt.ID = id },
		create:   func(ctx context.Context, rt *models.Route) error { return store.CreateRoute(ctx, rt) },
		update:   func(ctx context.Context, rt *models.Route) error { return store.UpdateRoute(ctx, rt) },
		remove:   func(ctx context.Context, id string) error { return store.DeleteRoute(ctx, id) },
	})

	registerResource(api, router, "/api/admin/schedules", resource[models.Schedule]{
		name:     "schedule",
		parent:   "routeId",
		sanitize: func(s *models.Schedule) { s.Name = utils.SanitizeInput(s.Name) },
		validate: validateScheduleTree,
		setID:    func(s *models.Schedule, id string) { s.ID = id },
		create:   func(ctx context.Context, s *models.Schedule) error { return store.CreateSchedule(ctx, s) },
		update:   func(ctx context.Context, s *models.Schedule) error { return store.UpdateSchedule(ctx, s) },
		remove:   func(ctx context.Context, id string) error { return store.DeleteSchedule(ctx, id) },
	})

	registerResource(api, router, "/api/admin/departure-times", resource[models.Departure]{
		name:     "departureTime",
		parent:   "scheduleId",
		validate: (*models.Departure).Validate,
		setID:    func(d *models.Departure, id string) { d.ID = id },
		create:   func(ctx context.Context, d *models.Departure) error { return store.CreateDeparture(ctx, d) },
		update:   func(ctx context.Context, d *models.Departure) error { return store.UpdateDeparture(ctx, d) },
		remove:   func(ctx context.Context, id string) error { return store.DeleteDeparture(ctx, id) },
	})

	registerResource(api, router, "/api/admin/fares", resource[models.Fare]{
		name:   "fare",
		parent: "scheduleId",
		sanitize: func(f *models.Fare) {
			f.Name = utils.SanitizeInput(f.Name)
			f.Description = utils.SanitizeInput(f.Description)
		},
		validate: (*models.Fare).Validate,
		setID:    func(f *models.Fare, id string) { f.ID = id },
		create:   func(ctx context.Context, f *models.Fare) error { return store.CreateFare(ctx, f) },
		update:   func(ctx context.Context, f *models.Fare) error { return store.UpdateFare(ctx, f) },
		remove:   func(ctx context.Context, id string) error { return store.DeleteFare(ctx, id) },
	})

	registerResource(api, router, "/api/admin/time-infos", resource[models.TimeAnnotation]{
		name: "timeInfo",
		sanitize: func(a *models.TimeAnnotation) {
			a.Symbol = utils.SanitizeInput(a.Symbol)
			a.Description = utils.SanitizeInput(a.Description)
		},
		validate: (*models.TimeAnnotation).Validate,
		setID:    func(a *models.TimeAnnotation, id string) { a.ID = id },
		create:   func(ctx context.Context, a *models.TimeAnnotation) error { return store.CreateTimeInfo(ctx, a) },
		update:   func(ctx context.Context, a *models.TimeAnnotation) error { return store.UpdateTimeInfo(ctx, a) },
		remove:   func(ctx context.Context, id string) error { return store.DeleteTimeInfo(ctx, id) },
	})

	registerResource(api, router, "/api/admin/holidays", resource[models.PublicHoliday]{
		name: "holiday",
		sanitize: func(h *models.PublicHoliday) {
			h.Title = utils.SanitizeInput(h.Title)
			h.Description = utils.SanitizeInput(h.Description)
		},
		validate: (*models.PublicHoliday).Validate,
		setID:    func(h *models.PublicHoliday, id string) { h.ID = id },
		create:   func(ctx context.Context, h *models.PublicHoliday) error { return store.CreateHoliday(ctx, h) },
		update:   func(ctx context.Context, h *models.PublicHoliday) error { return store.UpdateHoliday(ctx, h) },
		remove:   func(ctx context.Context, id string) error { return store.DeleteHoliday(ctx, id) },
	})

	registerResource(api, router, "/api/admin/announcements", resource[models.Announcement]{
		name: "announcement",
		sanitize: func(a *models.Announcement) {
			a.Title = utils.SanitizeInput(a.Title)
			a.Content = utils.SanitizeInput(a.Content)
		},
		validate: (*models.Announcement).Validate,
		check: func(ctx context.Context, a *models.Announcement) map[string][]string {
			if a.RouteID == "" {
				return nil
			}
			if _, err := store.GetRoute(ctx, a.RouteID); errors.Is(err, scheduledb.ErrNotFound) {
				return map[string][]string{"routeId": {"routeId does not exist"}}
			}
			return nil
		},
		setID:  func(a *models.Announcement, id string) { a.ID = id },
		create: func(ctx context.Context, a *models.Announcement) error { return store.CreateAnnouncement(ctx, a) },
		update: func(ctx context.Context, a *models.Announcement) error { return store.UpdateAnnouncement(ctx, a) },
		remove: func(ctx context.Context, id string) error { return store.DeleteAnnouncement(ctx, id) },
	})
}

// validateScheduleTree validates a schedule together with the fares and departures
// nested in a create request. Their scheduleId is assigned on insert.
func validateScheduleTree(s *models.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for i := range s.Fares {
		f := s.Fares[i]
		f.ScheduleID = "pending"
		if err := f.Validate(); err != nil {
			return fmt.Errorf("fare %q: %w", f.Name, err)
		}
	}
	for _, d := range s.Departures {
		if !d.Time.Valid() {
			return &models.InvalidTimeError{Value: d.Time.String()}
		}
	}
	return nil
}
