package scheduledb

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"timetable.transitboard.org/internal/models"
)

func newID() string {
	return uuid.NewString()
}

func ensureID(id *string) {
	if *id == "" {
		*id = newID()
	}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// dateArg binds an optional date. A nil date is stored as NULL.
func dateArg(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

// nullDate scans a nullable date column.
type nullDate struct {
	Date *models.Date
}

func (n *nullDate) Scan(src any) error {
	if src == nil {
		n.Date = nil
		return nil
	}
	var d models.Date
	if err := d.Scan(src); err != nil {
		return err
	}
	n.Date = &d
	return nil
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
