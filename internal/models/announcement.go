package models

import (
	"errors"
	"fmt"
	"time"
)

type Urgency string

const (
	UrgencyInfo      Urgency = "info"
	UrgencyImportant Urgency = "important"
	UrgencyUrgent    Urgency = "urgent"
)

// Rank orders urgencies for display, most urgent first.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyUrgent:
		return 0
	case UrgencyImportant:
		return 1
	default:
		return 2
	}
}

func (u Urgency) Valid() bool {
	return u == UrgencyInfo || u == UrgencyImportant || u == UrgencyUrgent
}

// Announcement is a rider notice. An empty RouteID applies to every route.
type Announcement struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RouteID        string    `json:"routeId,omitempty"`
	Urgency        Urgency   `json:"urgency"`
	EffectiveFrom  *Date     `json:"effectiveFrom,omitempty"`
	EffectiveUntil *Date     `json:"effectiveUntil,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ActiveOn reports whether a is shown for routeID on d.
func (a *Announcement) ActiveOn(routeID string, d Date) bool {
	if a.RouteID != "" && a.RouteID != routeID {
		return false
	}
	if a.EffectiveFrom != nil && d.Before(*a.EffectiveFrom) {
		return false
	}
	if a.EffectiveUntil != nil && d.After(*a.EffectiveUntil) {
		return false
	}
	return true
}

func (a *Announcement) Validate() error {
	if a.Title == "" {
		return errors.New("title is required")
	}
	if a.Content == "" {
		return errors.New("content is required")
	}
	if a.Urgency == "" {
		a.Urgency = UrgencyInfo
	}
	if !a.Urgency.Valid() {
		return fmt.Errorf("unknown urgency %q", a.Urgency)
	}
	if a.EffectiveFrom != nil && a.EffectiveUntil != nil && a.EffectiveUntil.Before(*a.EffectiveFrom) {
		return errors.New("effectiveUntil must not be before effectiveFrom")
	}
	return nil
}
