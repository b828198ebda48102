package timetable

import "timetable.transitboard.org/internal/models"

// SelectSchedule returns the schedule governing routeID on date, or nil when none is
// published. On a public holiday a covering holiday-tagged schedule wins; otherwise, or when
// no holiday schedule covers the date, the first covering schedule tagged with the date's
// weekday is used. Ties among equally eligible schedules go to input order.
func SelectSchedule(routeID string, date models.Date, schedules []models.Schedule, holidays []models.PublicHoliday) *models.Schedule {
	candidates := schedulesForRoute(routeID, schedules)
	if len(candidates) == 0 {
		return nil
	}

	if IsHoliday(date, holidays) {
		if s := firstCovering(candidates, models.Holiday, date); s != nil {
			return s
		}
	}

	return firstCovering(candidates, models.WeekdayTag(date.Weekday()), date)
}

func schedulesForRoute(routeID string, schedules []models.Schedule) []*models.Schedule {
	var out []*models.Schedule
	for i := range schedules {
		if schedules[i].RouteID == routeID {
			out = append(out, &schedules[i])
		}
	}
	return out
}

func firstCovering(candidates []*models.Schedule, tag models.DayTag, date models.Date) *models.Schedule {
	for _, s := range candidates {
		if s.HasTag(tag) && s.Covers(date) {
			return s
		}
	}
	return nil
}
