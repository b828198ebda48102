package app

import (
	"log/slog"
	"time"

	"timetable.transitboard.org/internal/appconf"
	"timetable.transitboard.org/internal/metrics"
	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/snapshot"
	"timetable.transitboard.org/scheduledb"
)

// Application holds the dependencies for our HTTP handlers, helpers, and middleware.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Store     *scheduledb.Client
	Snapshots *snapshot.Manager
	Metrics   *metrics.Metrics
	// Location is the wall clock every route's departure times are written in.
	Location *time.Location
	Clock    func() time.Time
}

// Now returns the current instant in the timetable's location.
func (app *Application) Now() time.Time {
	clock := app.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(app.location())
}

// Today is the calendar day of Now.
func (app *Application) Today() models.Date {
	return models.DateOf(app.Now())
}

func (app *Application) location() *time.Location {
	if app.Location == nil {
		return time.Local
	}
	return app.Location
}
