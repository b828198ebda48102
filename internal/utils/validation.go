package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Alphanumerics plus the separators used by uuids and imported GTFS ids
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) || strings.Contains(id, "..") {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// SanitizeInput removes HTML tags and surrounding whitespace
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// AddFieldError appends msg to the errors of field, allocating the map when needed.
func AddFieldError(fieldErrors map[string][]string, field, msg string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	fieldErrors[field] = append(fieldErrors[field], msg)
	return fieldErrors
}
