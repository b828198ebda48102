package models

import (
	"fmt"
	"strings"
	"time"
)

// DayTag is the applicability key of a schedule.
type DayTag string

const (
	Monday    DayTag = "mon"
	Tuesday   DayTag = "tue"
	Wednesday DayTag = "wed"
	Thursday  DayTag = "thu"
	Friday    DayTag = "fri"
	Saturday  DayTag = "sat"
	Sunday    DayTag = "sun"
	Holiday   DayTag = "holiday"
)

// weekdayTags is indexed by time.Weekday (Sunday = 0).
var weekdayTags = [7]DayTag{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var (
	WeekdayTags = []DayTag{Monday, Tuesday, Wednesday, Thursday, Friday}
	WeekendTags = []DayTag{Saturday, Sunday}
	HolidayTags = []DayTag{Holiday}
)

// WeekdayTag maps a weekday onto its tag.
func WeekdayTag(w time.Weekday) DayTag {
	return weekdayTags[w]
}

func (t DayTag) Valid() bool {
	if t == Holiday {
		return true
	}
	for _, w := range weekdayTags {
		if t == w {
			return true
		}
	}
	return false
}

func ParseDayTag(s string) (DayTag, error) {
	tag := DayTag(strings.ToLower(strings.TrimSpace(s)))
	if !tag.Valid() {
		return "", fmt.Errorf("unknown day tag %q", s)
	}
	return tag, nil
}

// ParseDayTags parses a comma separated tag list such as "mon,tue,wed".
func ParseDayTags(s string) ([]DayTag, error) {
	var tags []DayTag
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tag, err := ParseDayTag(part)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// JoinDayTags is the inverse of ParseDayTags.
func JoinDayTags(tags []DayTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
