package gtfs

import (
	"fmt"
	"sort"
	"time"

	"github.com/jamespfennell/gtfs"
	"timetable.transitboard.org/internal/models"
)

// Feed is a GTFS static feed converted into timetable entities.
type Feed struct {
	Routes    []models.Route
	Schedules []models.Schedule
	Warnings  []string
}

// Convert turns every GTFS route with at least one trip into a Route, and every
// (route, service) pair into a Schedule whose departures are the trips' first-stop
// departure times.
func Convert(static *gtfs.Static, idPrefix string) Feed {
	feed := Feed{}

	tripsByRoute := map[string][]*gtfs.ScheduledTrip{}
	for i := range static.Trips {
		t := &static.Trips[i]
		if t.Route == nil || t.Service == nil {
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("trip %s has no route or service", t.ID))
			continue
		}
		tripsByRoute[t.Route.Id] = append(tripsByRoute[t.Route.Id], t)
	}

	for i := range static.Routes {
		r := &static.Routes[i]
		trips := tripsByRoute[r.Id]
		if len(trips) == 0 {
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("route %s has no trips", r.Id))
			continue
		}

		route, ok := convertRoute(r, trips[0], idPrefix)
		if !ok {
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("route %s has no stops on its first trip", r.Id))
			continue
		}
		feed.Routes = append(feed.Routes, route)

		schedules, warnings := convertSchedules(route.ID, trips)
		feed.Schedules = append(feed.Schedules, schedules...)
		feed.Warnings = append(feed.Warnings, warnings...)
	}
	return feed
}

func convertRoute(r *gtfs.Route, first *gtfs.ScheduledTrip, idPrefix string) (models.Route, bool) {
	stops := orderedStopTimes(first)
	if len(stops) == 0 || stops[0].Stop == nil || stops[len(stops)-1].Stop == nil {
		return models.Route{}, false
	}

	route := models.Route{
		ID:            idPrefix + r.Id,
		Name:          r.ShortName,
		Code:          r.ShortName,
		Description:   r.Description,
		Origin:        stops[0].Stop.Name,
		Destination:   stops[len(stops)-1].Stop.Name,
		TransportType: transportType(int(r.Type)),
	}
	if route.Name == "" {
		route.Name = r.LongName
	}
	if route.Description == "" && r.ShortName != "" {
		route.Description = r.LongName
	}
	if route.Name == "" {
		route.Name = r.Id
	}
	return route, true
}

// transportType maps basic and extended GTFS route_type values.
func transportType(routeType int) models.TransportType {
	switch {
	case routeType == 0 || routeType == 5 || (routeType >= 900 && routeType < 1000):
		return models.TransportTram
	case routeType == 1 || (routeType >= 400 && routeType < 500):
		return models.TransportMetro
	case routeType == 2 || (routeType >= 100 && routeType < 200):
		return models.TransportTrain
	case routeType == 3 || routeType == 11 || (routeType >= 200 && routeType < 300) || (routeType >= 700 && routeType < 800):
		return models.TransportBus
	case routeType == 4 || (routeType >= 1000 && routeType < 1100) || (routeType >= 1200 && routeType < 1300):
		return models.TransportFerry
	default:
		return models.TransportOther
	}
}

func convertSchedules(routeID string, trips []*gtfs.ScheduledTrip) ([]models.Schedule, []string) {
	var (
		schedules []models.Schedule
		warnings  []string
		index     = map[string]int{}
		seen      = map[string]map[models.ClockTime]bool{}
	)

	for _, t := range trips {
		svc := t.Service
		i, ok := index[svc.Id]
		if !ok {
			tags := serviceTags(svc)
			if len(tags) == 0 || svc.StartDate.IsZero() {
				warnings = append(warnings, fmt.Sprintf("service %s has no weekly calendar, skipped for route %s", svc.Id, routeID))
				index[svc.Id] = -1
				continue
			}
			s := models.Schedule{
				ID:            routeID + ":" + svc.Id,
				RouteID:       routeID,
				Name:          serviceName(svc.Id, tags),
				Tags:          tags,
				EffectiveFrom: models.DateOf(svc.StartDate),
				Departures:    []models.Departure{},
			}
			if !svc.EndDate.IsZero() {
				until := models.DateOf(svc.EndDate)
				s.EffectiveUntil = &until
			}
			i = len(schedules)
			index[svc.Id] = i
			seen[svc.Id] = map[models.ClockTime]bool{}
			schedules = append(schedules, s)
		}
		if i < 0 {
			continue
		}

		dep, ok := firstDeparture(t)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("trip %s has no usable first departure", t.ID))
			continue
		}
		if dep >= 24*time.Hour {
			continue
		}
		clock := models.ClockTime(dep / time.Minute)
		if seen[svc.Id][clock] {
			continue
		}
		seen[svc.Id][clock] = true
		schedules[i].Departures = append(schedules[i].Departures, models.Departure{Time: clock})
	}

	for i := range schedules {
		deps := schedules[i].Departures
		sort.SliceStable(deps, func(a, b int) bool { return deps[a].Time < deps[b].Time })
	}
	return schedules, warnings
}

func serviceTags(svc *gtfs.Service) []models.DayTag {
	days := []struct {
		runs bool
		tag  models.DayTag
	}{
		{svc.Monday, models.Monday},
		{svc.Tuesday, models.Tuesday},
		{svc.Wednesday, models.Wednesday},
		{svc.Thursday, models.Thursday},
		{svc.Friday, models.Friday},
		{svc.Saturday, models.Saturday},
		{svc.Sunday, models.Sunday},
	}
	var tags []models.DayTag
	for _, d := range days {
		if d.runs {
			tags = append(tags, d.tag)
		}
	}
	return tags
}

func serviceName(serviceID string, tags []models.DayTag) string {
	switch models.JoinDayTags(tags) {
	case models.JoinDayTags(models.WeekdayTags):
		return "Weekdays"
	case models.JoinDayTags(models.WeekendTags):
		return "Weekends"
	case models.JoinDayTags(append(append([]models.DayTag{}, models.WeekdayTags...), models.WeekendTags...)):
		return "Daily"
	case string(models.Saturday):
		return "Saturdays"
	case string(models.Sunday):
		return "Sundays"
	default:
		return serviceID
	}
}

func orderedStopTimes(t *gtfs.ScheduledTrip) []gtfs.ScheduledStopTime {
	stops := append([]gtfs.ScheduledStopTime(nil), t.StopTimes...)
	sort.SliceStable(stops, func(i, j int) bool {
		return int64(stops[i].StopSequence) < int64(stops[j].StopSequence)
	})
	return stops
}

// firstDeparture is the departure time at the trip's first stop, falling back to the
// arrival time when the feed leaves departure_time blank.
func firstDeparture(t *gtfs.ScheduledTrip) (time.Duration, bool) {
	stops := orderedStopTimes(t)
	if len(stops) == 0 {
		return 0, false
	}
	first := stops[0]
	if first.DepartureTime == 0 && first.ArrivalTime > 0 {
		return first.ArrivalTime, true
	}
	return first.DepartureTime, true
}
