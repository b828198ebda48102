package scheduledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
)

const scheduleColumns = `id, route_id, name, tags, effective_from, effective_until, is_weekend_schedule, is_holiday_schedule, created_at, updated_at`

// scheduleTags reads the stored tag list, falling back to the legacy weekend/holiday flags
// for rows written before tags existed.
func scheduleTags(stored string, weekend, holiday bool) ([]models.DayTag, error) {
	if stored != "" {
		return models.ParseDayTags(stored)
	}
	switch {
	case holiday:
		return append([]models.DayTag(nil), models.HolidayTags...), nil
	case weekend:
		return append([]models.DayTag(nil), models.WeekendTags...), nil
	default:
		return append([]models.DayTag(nil), models.WeekdayTags...), nil
	}
}

// legacyFlags derives the weekend/holiday columns kept for older readers of the table.
func legacyFlags(s *models.Schedule) (weekend, holiday bool) {
	return s.HasTag(models.Saturday) || s.HasTag(models.Sunday), s.HasTag(models.Holiday)
}

func scanSchedule(row interface{ Scan(...any) error }) (models.Schedule, error) {
	var (
		s                models.Schedule
		tags             string
		until            nullDate
		weekend, holiday bool
	)
	err := row.Scan(&s.ID, &s.RouteID, &s.Name, &tags, &s.EffectiveFrom, &until, &weekend, &holiday, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.EffectiveUntil = until.Date
	if s.Tags, err = scheduleTags(tags, weekend, holiday); err != nil {
		return s, fmt.Errorf("schedule %s: %w", s.ID, err)
	}
	s.Departures = []models.Departure{}
	s.Fares = []models.Fare{}
	return s, nil
}

// ListSchedules returns every schedule with its departures and fares nested.
func (c *Client) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	return c.loadSchedules(ctx, "", "")
}

// ListSchedulesForRoute is ListSchedules restricted to one route.
func (c *Client) ListSchedulesForRoute(ctx context.Context, routeID string) ([]models.Schedule, error) {
	return c.loadSchedules(ctx, "route_id", routeID)
}

func (c *Client) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	schedules, err := c.loadSchedules(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrNotFound
	}
	return &schedules[0], nil
}

// loadSchedules reads schedules, optionally filtered on one column, and attaches the
// departures, link rows and fares in three further queries.
func (c *Client) loadSchedules(ctx context.Context, column, value string) ([]models.Schedule, error) {
	q := c.queries()

	where, args := "", []any(nil)
	if column != "" {
		where, args = " WHERE "+column+" = ?", []any{value}
	}

	rows, err := q.query(ctx, `SELECT `+scheduleColumns+` FROM schedules`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	schedules := []models.Schedule{}
	index := map[string]int{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			logging.SafeCloseWithLogging(rows, c.logger, "list_schedules")
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		index[s.ID] = len(schedules)
		schedules = append(schedules, s)
	}
	err = rows.Err()
	logging.SafeCloseWithLogging(rows, c.logger, "list_schedules")
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return schedules, nil
	}

	var scope []string
	if column != "" {
		for _, s := range schedules {
			scope = append(scope, s.ID)
		}
	}

	departures, err := c.loadDepartures(ctx, q, scope)
	if err != nil {
		return nil, err
	}
	for _, d := range departures {
		if i, ok := index[d.ScheduleID]; ok {
			schedules[i].Departures = append(schedules[i].Departures, d)
		}
	}

	fares, err := c.loadFares(ctx, q, scope)
	if err != nil {
		return nil, err
	}
	for _, f := range fares {
		if i, ok := index[f.ScheduleID]; ok {
			schedules[i].Fares = append(schedules[i].Fares, f)
		}
	}
	return schedules, nil
}

// CreateSchedule inserts s together with any nested fares and departures in one
// transaction. Ids are assigned where missing.
func (c *Client) CreateSchedule(ctx context.Context, s *models.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return c.withTx(ctx, "create_schedule", func(q queries) error {
		if err := rowExists(ctx, q, "routes", s.RouteID); err != nil {
			return err
		}
		return insertSchedule(ctx, q, s, c.now())
	})
}

func insertSchedule(ctx context.Context, q queries, s *models.Schedule, now time.Time) error {
	ensureID(&s.ID)
	s.CreatedAt, s.UpdatedAt = now, now
	weekend, holiday := legacyFlags(s)
	_, err := q.exec(ctx, `
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.RouteID, s.Name, models.JoinDayTags(s.Tags), s.EffectiveFrom, dateArg(s.EffectiveUntil),
		weekend, holiday, now, now,
	)
	if err != nil {
		return fmt.Errorf("error inserting schedule: %w", err)
	}

	for i := range s.Fares {
		f := &s.Fares[i]
		f.ScheduleID = s.ID
		if err := f.Validate(); err != nil {
			return fmt.Errorf("fare %q: %w", f.Name, err)
		}
		if err := insertFare(ctx, q, f, now); err != nil {
			return err
		}
	}
	for i := range s.Departures {
		d := &s.Departures[i]
		d.ScheduleID = s.ID
		if err := d.Validate(); err != nil {
			return err
		}
		if err := insertDeparture(ctx, q, d, now); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSchedule rewrites the schedule's own columns. Departures and fares are managed
// through their own operations.
func (c *Client) UpdateSchedule(ctx context.Context, s *models.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.UpdatedAt = c.now()
	weekend, holiday := legacyFlags(s)
	err := c.queries().execOne(ctx, `
		UPDATE schedules SET route_id = ?, name = ?, tags = ?, effective_from = ?, effective_until = ?,
			is_weekend_schedule = ?, is_holiday_schedule = ?, updated_at = ?
		WHERE id = ?`,
		s.RouteID, s.Name, models.JoinDayTags(s.Tags), s.EffectiveFrom, dateArg(s.EffectiveUntil),
		weekend, holiday, s.UpdatedAt, s.ID,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error updating schedule %s: %w", s.ID, err)
	}
	return err
}

// DeleteSchedule removes a schedule with its departures, fares and link rows.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.withTx(ctx, "delete_schedule", func(q queries) error {
		return deleteSchedule(ctx, q, id)
	})
}

func deleteSchedule(ctx context.Context, q queries, id string) error {
	sub := `SELECT id FROM departure_times WHERE schedule_id = ?`
	steps := []string{
		`DELETE FROM departure_time_infos WHERE departure_time_id IN (` + sub + `)`,
		`DELETE FROM departure_time_fares WHERE departure_time_id IN (` + sub + `)`,
		`DELETE FROM departure_times WHERE schedule_id = ?`,
		`DELETE FROM fares WHERE schedule_id = ?`,
	}
	for _, stmt := range steps {
		if _, err := q.exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("error deleting schedule %s: %w", id, err)
		}
	}
	if err := q.execOne(ctx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("error deleting schedule %s: %w", id, err)
	}
	return nil
}

func scheduleIDsForRoute(ctx context.Context, q queries, routeID string) ([]string, error) {
	rows, err := q.query(ctx, `SELECT id FROM schedules WHERE route_id = ?`, routeID)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules for route %s: %w", routeID, err)
	}
	defer rows.Close() // nolint:errcheck

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scheduleExists(ctx context.Context, q queries, id string) error {
	return rowExists(ctx, q, "schedules", id)
}

func rowExists(ctx context.Context, q queries, table, id string) error {
	var one int
	err := q.queryRow(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
