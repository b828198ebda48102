package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(d Date) *Date { return &d }

func TestScheduleCoversSingleDay(t *testing.T) {
	day := NewDate(2024, time.January, 1)
	s := Schedule{EffectiveFrom: day, EffectiveUntil: datePtr(day)}

	assert.True(t, s.Covers(day))
	assert.False(t, s.Covers(day.AddDays(-1)))
	assert.False(t, s.Covers(day.AddDays(1)))
}

func TestScheduleCoversOpenEnded(t *testing.T) {
	s := Schedule{EffectiveFrom: NewDate(2023, time.January, 1)}

	assert.True(t, s.Covers(NewDate(2023, time.January, 1)))
	assert.True(t, s.Covers(NewDate(2030, time.June, 30)))
	assert.False(t, s.Covers(NewDate(2022, time.December, 31)))
}

func TestScheduleValidate(t *testing.T) {
	from := NewDate(2024, time.March, 1)

	tests := []struct {
		name     string
		schedule Schedule
		errMsg   string
	}{
		{
			name:     "valid weekday schedule",
			schedule: Schedule{RouteID: "R1", Tags: WeekdayTags, EffectiveFrom: from},
		},
		{
			name:     "missing route",
			schedule: Schedule{Tags: WeekdayTags, EffectiveFrom: from},
			errMsg:   "routeId is required",
		},
		{
			name:     "no tags",
			schedule: Schedule{RouteID: "R1", EffectiveFrom: from},
			errMsg:   "at least one day tag",
		},
		{
			name:     "unknown tag",
			schedule: Schedule{RouteID: "R1", Tags: []DayTag{"someday"}, EffectiveFrom: from},
			errMsg:   "unknown day tag",
		},
		{
			name:     "missing effective from",
			schedule: Schedule{RouteID: "R1", Tags: HolidayTags},
			errMsg:   "effectiveFrom is required",
		},
		{
			name:     "inverted range",
			schedule: Schedule{RouteID: "R1", Tags: HolidayTags, EffectiveFrom: from, EffectiveUntil: datePtr(from.AddDays(-1))},
			errMsg:   "must not be before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestParseDayTags(t *testing.T) {
	tags, err := ParseDayTags("mon, TUE,,holiday")
	assert.NoError(t, err)
	assert.Equal(t, []DayTag{Monday, Tuesday, Holiday}, tags)
	assert.Equal(t, "mon,tue,holiday", JoinDayTags(tags))

	_, err = ParseDayTags("mon,funday")
	assert.Error(t, err)

	assert.Equal(t, Sunday, WeekdayTag(time.Sunday))
	assert.Equal(t, Saturday, WeekdayTag(time.Saturday))
}

func TestFareValidate(t *testing.T) {
	f := Fare{ScheduleID: "S1", Name: "Adult", Price: 2.5}
	assert.NoError(t, f.Validate())
	assert.Equal(t, FareStandard, f.FareType)
	assert.Equal(t, "USD", f.Currency)

	negative := Fare{ScheduleID: "S1", Name: "Adult", Price: -1}
	assert.ErrorContains(t, negative.Validate(), "non-negative")

	badCurrency := Fare{ScheduleID: "S1", Name: "Adult", Currency: "XXQ"}
	assert.ErrorContains(t, badCurrency.Validate(), "unknown currency")

	badType := Fare{ScheduleID: "S1", Name: "Adult", FareType: "vip"}
	assert.ErrorContains(t, badType.Validate(), "unknown fare type")

	assert.Equal(t, "EUR 1.20", FormatPrice(1.2, "EUR"))
}

func TestAnnouncementActiveOn(t *testing.T) {
	from := NewDate(2024, time.July, 1)
	until := NewDate(2024, time.July, 7)

	global := Announcement{Title: "Works", Content: "..."}
	scoped := Announcement{RouteID: "R1", EffectiveFrom: &from, EffectiveUntil: &until}

	assert.True(t, global.ActiveOn("R9", from))
	assert.True(t, scoped.ActiveOn("R1", from))
	assert.True(t, scoped.ActiveOn("R1", until))
	assert.False(t, scoped.ActiveOn("R1", until.AddDays(1)))
	assert.False(t, scoped.ActiveOn("R2", from))

	assert.Less(t, UrgencyUrgent.Rank(), UrgencyImportant.Rank())
	assert.Less(t, UrgencyImportant.Rank(), UrgencyInfo.Rank())
}
