package timetable

import (
	"sort"
	"time"

	"timetable.transitboard.org/internal/models"
)

// ScheduleSummary identifies the selected schedule without repeating its departures.
type ScheduleSummary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Tags           []models.DayTag `json:"tags"`
	EffectiveFrom  models.Date     `json:"effectiveFrom"`
	EffectiveUntil *models.Date    `json:"effectiveUntil,omitempty"`
}

// BoardDeparture is one decorated row of a board.
type BoardDeparture struct {
	Time          models.ClockTime        `json:"time"`
	Display       string                  `json:"display"`
	Departed      bool                    `json:"departed"`
	IsNext        bool                    `json:"isNext"`
	MinutesUntil  int                     `json:"minutesUntil"`
	TimeRemaining string                  `json:"timeRemaining,omitempty"`
	Annotations   []models.TimeAnnotation `json:"annotations"`
	Fares         []models.Fare           `json:"fares"`
}

// Board is everything a rider sees for one route on one day.
type Board struct {
	Route         *models.Route         `json:"route"`
	Day           DayInfo               `json:"day"`
	ReferenceTime time.Time             `json:"referenceTime"`
	IsToday       bool                  `json:"isToday"`
	HasService    bool                  `json:"hasService"`
	Schedule      *ScheduleSummary      `json:"schedule,omitempty"`
	Departures    []BoardDeparture      `json:"departures"`
	Next          *BoardDeparture       `json:"next,omitempty"`
	Fares         []models.Fare         `json:"fares"`
	Announcements []models.Announcement `json:"announcements"`
}

// BuildBoard resolves the schedule for routeID on date and decorates every departure.
// ref must already be expressed in the routes' wall-clock location. Countdown fields and
// the next departure are only filled in when date is ref's own calendar day.
func BuildBoard(routeID string, date models.Date, ref time.Time, snap *models.Snapshot) Board {
	board := Board{
		Day:           Classify(date, snap.Holidays),
		ReferenceTime: ref,
		IsToday:       models.DateOf(ref) == date,
		Departures:    []BoardDeparture{},
		Fares:         []models.Fare{},
		Announcements: ActiveAnnouncements(routeID, date, snap.Announcements),
	}
	if route, ok := snap.FindRoute(routeID); ok {
		board.Route = route
	}

	schedule := SelectSchedule(routeID, date, snap.Schedules, snap.Holidays)
	if schedule == nil {
		return board
	}

	board.HasService = true
	board.Schedule = &ScheduleSummary{
		ID:             schedule.ID,
		Name:           schedule.Name,
		Tags:           schedule.Tags,
		EffectiveFrom:  schedule.EffectiveFrom,
		EffectiveUntil: schedule.EffectiveUntil,
	}
	if schedule.Fares != nil {
		board.Fares = schedule.Fares
	}

	times := DepartureTimes(schedule)
	next, hasNext := NextDeparture(times, ref)
	hasNext = hasNext && board.IsToday

	nextIdx := -1
	for _, t := range times {
		row := BoardDeparture{
			Time:        t,
			Display:     t.Display(),
			Annotations: AnnotationsFor(t, schedule, snap.TimeAnnotations),
			Fares:       FaresFor(t, schedule, schedule.Fares),
		}
		if board.IsToday {
			row.MinutesUntil = MinutesUntil(t, ref)
			row.Departed = HasDeparted(t, ref)
			row.TimeRemaining = FormatTimeRemaining(row.MinutesUntil)
		}
		if hasNext && nextIdx == -1 && t == next {
			row.IsNext = true
			nextIdx = len(board.Departures)
		}
		board.Departures = append(board.Departures, row)
	}
	if nextIdx >= 0 {
		n := board.Departures[nextIdx]
		board.Next = &n
	}
	return board
}

// ActiveAnnouncements returns the announcements shown for routeID on date, most urgent
// first. Announcements of equal urgency keep their input order.
func ActiveAnnouncements(routeID string, date models.Date, all []models.Announcement) []models.Announcement {
	out := []models.Announcement{}
	for i := range all {
		if all[i].ActiveOn(routeID, date) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Urgency.Rank() < out[j].Urgency.Rank()
	})
	return out
}
