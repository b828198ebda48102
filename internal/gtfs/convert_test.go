package gtfs

import (
	"testing"
	"time"

	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timetable.transitboard.org/internal/models"
)

func syntheticStatic() *gtfs.Static {
	quay := &gtfs.Stop{Id: "S1", Name: "Quay"}
	point := &gtfs.Stop{Id: "S2", Name: "Point"}

	static := &gtfs.Static{
		Routes: []gtfs.Route{
			{Id: "R1", ShortName: "H1", LongName: "Harbour Line", Type: gtfs.RouteType(4)},
			{Id: "R2", LongName: "Orphan", Type: gtfs.RouteType(3)},
		},
		Services: []gtfs.Service{
			{Id: "WK", Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
				StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
			{Id: "SUN", Sunday: true, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Id: "EXTRA", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	route := &static.Routes[0]
	wk, sun, extra := &static.Services[0], &static.Services[1], &static.Services[2]

	trip := func(id string, svc *gtfs.Service, first time.Duration) gtfs.ScheduledTrip {
		return gtfs.ScheduledTrip{
			ID:      id,
			Route:   route,
			Service: svc,
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: point, ArrivalTime: first + 20*time.Minute, DepartureTime: first + 20*time.Minute, StopSequence: 2},
				{Stop: quay, ArrivalTime: first, DepartureTime: first, StopSequence: 1},
			},
		}
	}
	static.Trips = []gtfs.ScheduledTrip{
		trip("T1", wk, 7*time.Hour),
		trip("T2", wk, 6*time.Hour+30*time.Minute),
		trip("T3", wk, 7*time.Hour),
		trip("T4", wk, 24*time.Hour+10*time.Minute),
		trip("T5", sun, 9*time.Hour),
		trip("T6", extra, 10*time.Hour),
	}
	return static
}

func TestConvertRoutes(t *testing.T) {
	feed := Convert(syntheticStatic(), "gtfs-")

	require.Len(t, feed.Routes, 1, "routes without trips are skipped")
	r := feed.Routes[0]
	assert.Equal(t, "gtfs-R1", r.ID)
	assert.Equal(t, "H1", r.Name)
	assert.Equal(t, "Harbour Line", r.Description)
	assert.Equal(t, "Quay", r.Origin)
	assert.Equal(t, "Point", r.Destination)
	assert.Equal(t, models.TransportFerry, r.TransportType)
	assert.NoError(t, r.Validate())
}

func TestConvertSchedules(t *testing.T) {
	feed := Convert(syntheticStatic(), "")
	require.Len(t, feed.Schedules, 2, "services without weekdays are skipped")

	wk := feed.Schedules[0]
	assert.Equal(t, "R1:WK", wk.ID)
	assert.Equal(t, "Weekdays", wk.Name)
	assert.Equal(t, models.WeekdayTags, wk.Tags)
	assert.Equal(t, models.NewDate(2024, time.January, 1), wk.EffectiveFrom)
	require.NotNil(t, wk.EffectiveUntil)
	assert.Equal(t, models.NewDate(2024, time.December, 31), *wk.EffectiveUntil)

	var times []string
	for _, d := range wk.Departures {
		times = append(times, d.Time.String())
	}
	assert.Equal(t, []string{"06:30", "07:00"}, times, "sorted, deduplicated, past-midnight trips dropped")

	sun := feed.Schedules[1]
	assert.Equal(t, "Sundays", sun.Name)
	assert.Nil(t, sun.EffectiveUntil)
	require.Len(t, sun.Departures, 1)
	assert.Equal(t, "09:00", sun.Departures[0].Time.String())
	assert.NoError(t, sun.Validate())

	assert.NotEmpty(t, feed.Warnings)
}

func TestTransportType(t *testing.T) {
	tests := []struct {
		routeType int
		want      models.TransportType
	}{
		{0, models.TransportTram},
		{1, models.TransportMetro},
		{2, models.TransportTrain},
		{3, models.TransportBus},
		{4, models.TransportFerry},
		{11, models.TransportBus},
		{109, models.TransportTrain},
		{700, models.TransportBus},
		{900, models.TransportTram},
		{1000, models.TransportFerry},
		{6, models.TransportOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transportType(tt.routeType), "route_type %d", tt.routeType)
	}
}

func TestServiceName(t *testing.T) {
	all := append(append([]models.DayTag{}, models.WeekdayTags...), models.WeekendTags...)
	assert.Equal(t, "Daily", serviceName("x", all))
	assert.Equal(t, "Weekends", serviceName("x", models.WeekendTags))
	assert.Equal(t, "Saturdays", serviceName("x", []models.DayTag{models.Saturday}))
	assert.Equal(t, "MWF", serviceName("MWF", []models.DayTag{models.Monday, models.Wednesday, models.Friday}))
}
