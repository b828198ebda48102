package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day stored as minutes since midnight.
// Departures are compared and joined on this value, never on their string form.
type ClockTime int

const minutesPerDay = 24 * 60

// InvalidTimeError is returned when a time-of-day string cannot be parsed.
type InvalidTimeError struct {
	Value string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time %q, use HH:MM", e.Value)
}

// NewClockTime builds a ClockTime from an hour (0-23) and a minute (0-59).
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ClockTimeOf returns the time of day of t, truncated to the minute.
func ClockTimeOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

// ParseClockTime accepts H:MM, HH:MM and HH:MM:SS. Seconds are dropped.
func ParseClockTime(s string) (ClockTime, error) {
	raw := s
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, &InvalidTimeError{Value: raw}
	}
	if len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, &InvalidTimeError{Value: raw}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, &InvalidTimeError{Value: raw}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, &InvalidTimeError{Value: raw}
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, &InvalidTimeError{Value: raw}
		}
	}
	return NewClockTime(hour, minute), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// Valid reports whether c lies within a single day.
func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// String renders the canonical HH:MM form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Display renders the 12-hour form used on boards, e.g. "8:05 AM".
func (c ClockTime) Display() string {
	return c.On(Date{Year: 2000, Month: time.January, Day: 1}, time.UTC).Format("3:04 PM")
}

// On combines c with the calendar day d in loc.
func (c ClockTime) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), 0, 0, loc)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	case time.Time:
		*c = ClockTimeOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}
