package timetable

import "timetable.transitboard.org/internal/models"

// departureAt returns the first departure of schedule at exactly t.
func departureAt(t models.ClockTime, schedule *models.Schedule) *models.Departure {
	if schedule == nil {
		return nil
	}
	for i := range schedule.Departures {
		if schedule.Departures[i].Time == t {
			return &schedule.Departures[i]
		}
	}
	return nil
}

// AnnotationsFor resolves the annotations of the departure at t. References that do not
// resolve against all are dropped. The result keeps the order of all.
func AnnotationsFor(t models.ClockTime, schedule *models.Schedule, all []models.TimeAnnotation) []models.TimeAnnotation {
	out := []models.TimeAnnotation{}
	dep := departureAt(t, schedule)
	if dep == nil || len(dep.AnnotationIDs) == 0 {
		return out
	}
	ids := idSet(dep.AnnotationIDs)
	for _, a := range all {
		if _, ok := ids[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// FaresFor resolves the fares of the departure at t against all, usually the schedule's
// own fares.
func FaresFor(t models.ClockTime, schedule *models.Schedule, all []models.Fare) []models.Fare {
	out := []models.Fare{}
	dep := departureAt(t, schedule)
	if dep == nil || len(dep.FareIDs) == 0 {
		return out
	}
	ids := idSet(dep.FareIDs)
	for _, f := range all {
		if _, ok := ids[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
