package models

import "time"

// CurrentTimeModel is the server clock as riders of the published timetables see it.
type CurrentTimeModel struct {
	ReadableTime string    `json:"readableTime"`
	Time         int64     `json:"time"`
	Date         Date      `json:"date"`
	ClockTime    ClockTime `json:"clockTime"`
	DayTag       DayTag    `json:"dayTag"`
	Timezone     string    `json:"timezone"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// NewCurrentTimeData describes t in its own location. The day tag is the plain weekday;
// holidays are resolved by the calendar endpoint.
func NewCurrentTimeData(t time.Time) CurrentTimeData {
	date := DateOf(t)
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixMilli(),
			Date:         date,
			ClockTime:    ClockTimeOf(t),
			DayTag:       WeekdayTag(date.Weekday()),
			Timezone:     t.Location().String(),
		},
		References: NewEmptyReferences(),
	}
}
