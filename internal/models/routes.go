package models

import (
	"errors"
	"fmt"
	"time"
)

type TransportType string

const (
	TransportBus   TransportType = "bus"
	TransportTrain TransportType = "train"
	TransportTram  TransportType = "tram"
	TransportFerry TransportType = "ferry"
	TransportMetro TransportType = "metro"
	TransportOther TransportType = "other"
)

func (t TransportType) Valid() bool {
	switch t {
	case TransportBus, TransportTrain, TransportTram, TransportFerry, TransportMetro, TransportOther:
		return true
	}
	return false
}

// Route is a published line between an origin and a destination.
type Route struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Code          string        `json:"code,omitempty"`
	Description   string        `json:"description,omitempty"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	TransportType TransportType `json:"transportType"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Validate checks the fields the storage layer requires before a write.
func (r *Route) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Origin == "" {
		return errors.New("origin is required")
	}
	if r.Destination == "" {
		return errors.New("destination is required")
	}
	if r.TransportType == "" {
		r.TransportType = TransportBus
	}
	if !r.TransportType.Valid() {
		return fmt.Errorf("unknown transport type %q", r.TransportType)
	}
	return nil
}
