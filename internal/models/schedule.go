package models

import (
	"errors"
	"fmt"
	"time"
)

// Schedule is one day-type / effective-range variant of a route's timetable.
type Schedule struct {
	ID             string      `json:"id"`
	RouteID        string      `json:"routeId"`
	Name           string      `json:"name"`
	Tags           []DayTag    `json:"tags"`
	EffectiveFrom  Date        `json:"effectiveFrom"`
	EffectiveUntil *Date       `json:"effectiveUntil,omitempty"`
	Departures     []Departure `json:"departures"`
	Fares          []Fare      `json:"fares"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Departure is a single time-of-day entry of a schedule.
type Departure struct {
	ID            string    `json:"id,omitempty"`
	ScheduleID    string    `json:"scheduleId,omitempty"`
	Time          ClockTime `json:"time"`
	AnnotationIDs []string  `json:"annotationIds"`
	FareIDs       []string  `json:"fareIds"`
}

func (s *Schedule) HasTag(tag DayTag) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Covers is the closed-interval effectivity test on calendar days.
func (s *Schedule) Covers(d Date) bool {
	if d.Before(s.EffectiveFrom) {
		return false
	}
	return s.EffectiveUntil == nil || !d.After(*s.EffectiveUntil)
}

func (s *Schedule) Validate() error {
	if s.RouteID == "" {
		return errors.New("routeId is required")
	}
	if len(s.Tags) == 0 {
		return errors.New("at least one day tag is required")
	}
	for _, t := range s.Tags {
		if !t.Valid() {
			return fmt.Errorf("unknown day tag %q", t)
		}
	}
	if s.EffectiveFrom.IsZero() {
		return errors.New("effectiveFrom is required")
	}
	if s.EffectiveUntil != nil && s.EffectiveUntil.Before(s.EffectiveFrom) {
		return errors.New("effectiveUntil must not be before effectiveFrom")
	}
	return nil
}

func (d *Departure) Validate() error {
	if d.ScheduleID == "" {
		return errors.New("scheduleId is required")
	}
	if !d.Time.Valid() {
		return &InvalidTimeError{Value: d.Time.String()}
	}
	return nil
}
