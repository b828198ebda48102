package timetable

import (
	"sort"
	"time"

	"timetable.transitboard.org/internal/models"
)

// DepartureTimes returns the schedule's departure times in ascending order. Duplicates are
// kept; the schedule's own slice is not reordered.
func DepartureTimes(schedule *models.Schedule) []models.ClockTime {
	if schedule == nil {
		return nil
	}
	times := make([]models.ClockTime, len(schedule.Departures))
	for i, d := range schedule.Departures {
		times[i] = d.Time
	}
	sort.SliceStable(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

// NextDeparture returns the earliest time strictly after ref on ref's calendar day.
// There is no rollover into the following day.
func NextDeparture(times []models.ClockTime, ref time.Time) (models.ClockTime, bool) {
	var (
		best  models.ClockTime
		found bool
	)
	for _, t := range times {
		if HasDeparted(t, ref) {
			continue
		}
		if !found || t < best {
			best, found = t, true
		}
	}
	return best, found
}

// MinutesUntil is the whole number of minutes, rounded up, from ref until t on ref's day.
// A departure at or before ref yields 0.
func MinutesUntil(t models.ClockTime, ref time.Time) int {
	departs := t.On(models.DateOf(ref), ref.Location())
	if !departs.After(ref) {
		return 0
	}
	remaining := departs.Sub(ref)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// HasDeparted reports whether t is at or before ref on ref's day.
func HasDeparted(t models.ClockTime, ref time.Time) bool {
	return !t.On(models.DateOf(ref), ref.Location()).After(ref)
}
