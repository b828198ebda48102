package timetable

import "timetable.transitboard.org/internal/models"

// DayInfo is the classification of a calendar day.
type DayInfo struct {
	Date      models.Date           `json:"date"`
	DayTag    models.DayTag         `json:"dayTag"`
	IsHoliday bool                  `json:"isHoliday"`
	Holiday   *models.PublicHoliday `json:"holiday,omitempty"`
}

// Classify maps date onto its weekday tag and holiday status. When several holidays share
// the date, the first one in holidays is reported.
func Classify(date models.Date, holidays []models.PublicHoliday) DayInfo {
	info := DayInfo{
		Date:   date,
		DayTag: models.WeekdayTag(date.Weekday()),
	}
	if h := HolidayOn(date, holidays); h != nil {
		info.IsHoliday = true
		info.Holiday = h
	}
	return info
}

// HolidayOn returns the first holiday falling on date, or nil.
func HolidayOn(date models.Date, holidays []models.PublicHoliday) *models.PublicHoliday {
	for i := range holidays {
		if holidays[i].Date == date {
			h := holidays[i]
			return &h
		}
	}
	return nil
}

// IsHoliday reports whether any holiday falls on date.
func IsHoliday(date models.Date, holidays []models.PublicHoliday) bool {
	return HolidayOn(date, holidays) != nil
}
