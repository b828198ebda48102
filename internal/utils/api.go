package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"timetable.transitboard.org/internal/models"
)

// ParseDateParam reads a YYYY-MM-DD value from the query. An absent value yields today.
// Failures are recorded in fieldErrors under key.
func ParseDateParam(params url.Values, key string, today models.Date, fieldErrors map[string][]string) (models.Date, map[string][]string) {
	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return today, fieldErrors
	}
	d, err := models.ParseDate(val)
	if err != nil {
		return models.Date{}, AddFieldError(fieldErrors, key, err.Error())
	}
	return d, fieldErrors
}

// ParseInstantParam reads a reference instant from the query. Both RFC3339 timestamps and
// epoch milliseconds are accepted. An absent value yields now. The result is in loc.
func ParseInstantParam(params url.Values, key string, now time.Time, loc *time.Location, fieldErrors map[string][]string) (time.Time, map[string][]string) {
	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return now.In(loc), fieldErrors
	}

	if millis, err := strconv.ParseInt(val, 10, 64); err == nil {
		return time.UnixMilli(millis).In(loc), fieldErrors
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.In(loc), fieldErrors
	}
	return time.Time{}, AddFieldError(fieldErrors, key, fmt.Sprintf("Invalid field value for field %q.", key))
}
