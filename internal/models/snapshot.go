package models

import "time"

// Snapshot is the read-only set of collections the resolver works on.
type Snapshot struct {
	Routes          []Route          `json:"routes"`
	Schedules       []Schedule       `json:"schedules"`
	TimeAnnotations []TimeAnnotation `json:"timeInfos"`
	Holidays        []PublicHoliday  `json:"publicHolidays"`
	Announcements   []Announcement   `json:"announcements"`
	LoadedAt        time.Time        `json:"lastUpdated"`
}

func (s *Snapshot) FindRoute(id string) (*Route, bool) {
	for i := range s.Routes {
		if s.Routes[i].ID == id {
			return &s.Routes[i], true
		}
	}
	return nil, false
}

// Empty mirrors the cache availability check: a snapshot without routes is unusable.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Routes) == 0
}
