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

// scopeClause restricts column to ids. A nil scope means every row.
func scopeClause(column string, ids []string) (string, []any) {
	if ids == nil {
		return "", nil
	}
	if len(ids) == 0 {
		return " WHERE 1 = 0", nil
	}
	return " WHERE " + column + " IN (" + placeholders(len(ids)) + ")", stringArgs(ids)
}

// loadDepartures returns the departures of the scoped schedules ordered by time, with
// their annotation and fare references attached.
func (c *Client) loadDepartures(ctx context.Context, q queries, scheduleIDs []string) ([]models.Departure, error) {
	where, args := scopeClause("schedule_id", scheduleIDs)
	rows, err := q.query(ctx, `SELECT id, schedule_id, time FROM departure_times`+where+` ORDER BY time, created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing departure times: %w", err)
	}
	var departures []models.Departure
	index := map[string]int{}
	for rows.Next() {
		d := models.Departure{AnnotationIDs: []string{}, FareIDs: []string{}}
		if err := rows.Scan(&d.ID, &d.ScheduleID, &d.Time); err != nil {
			logging.SafeCloseWithLogging(rows, c.logger, "list_departures")
			return nil, fmt.Errorf("error scanning departure time: %w", err)
		}
		index[d.ID] = len(departures)
		departures = append(departures, d)
	}
	err = rows.Err()
	logging.SafeCloseWithLogging(rows, c.logger, "list_departures")
	if err != nil || len(departures) == 0 {
		return departures, err
	}

	links := []struct {
		table, column string
		attach        func(d *models.Departure, id string)
	}{
		{"departure_time_infos", "time_info_id", func(d *models.Departure, id string) { d.AnnotationIDs = append(d.AnnotationIDs, id) }},
		{"departure_time_fares", "fare_id", func(d *models.Departure, id string) { d.FareIDs = append(d.FareIDs, id) }},
	}
	for _, link := range links {
		err := c.eachLink(ctx, q, link.table, link.column, scheduleIDs, func(departureID, refID string) {
			if i, ok := index[departureID]; ok {
				link.attach(&departures[i], refID)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return departures, nil
}

func (c *Client) eachLink(ctx context.Context, q queries, table, column string, scheduleIDs []string, fn func(departureID, refID string)) error {
	where, args := scopeClause("d.schedule_id", scheduleIDs)
	rows, err := q.query(ctx, `
		SELECT l.departure_time_id, l.`+column+`
		FROM `+table+` l JOIN departure_times d ON d.id = l.departure_time_id`+where+`
		ORDER BY l.departure_time_id, l.position`, args...)
	if err != nil {
		return fmt.Errorf("error listing %s: %w", table, err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_"+table)

	for rows.Next() {
		var departureID, refID string
		if err := rows.Scan(&departureID, &refID); err != nil {
			return fmt.Errorf("error scanning %s: %w", table, err)
		}
		fn(departureID, refID)
	}
	return rows.Err()
}

func (c *Client) GetDeparture(ctx context.Context, id string) (*models.Departure, error) {
	d := models.Departure{AnnotationIDs: []string{}, FareIDs: []string{}}
	err := c.queries().queryRow(ctx, `SELECT id, schedule_id, time FROM departure_times WHERE id = ?`, id).
		Scan(&d.ID, &d.ScheduleID, &d.Time)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting departure time %s: %w", id, err)
	}

	departures, err := c.loadDepartures(ctx, c.queries(), []string{d.ScheduleID})
	if err != nil {
		return nil, err
	}
	for i := range departures {
		if departures[i].ID == id {
			return &departures[i], nil
		}
	}
	return &d, nil
}

// CreateDeparture adds a departure to an existing schedule.
func (c *Client) CreateDeparture(ctx context.Context, d *models.Departure) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return c.withTx(ctx, "create_departure", func(q queries) error {
		if err := scheduleExists(ctx, q, d.ScheduleID); err != nil {
			return err
		}
		return insertDeparture(ctx, q, d, c.now())
	})
}

func insertDeparture(ctx context.Context, q queries, d *models.Departure, now time.Time) error {
	ensureID(&d.ID)
	_, err := q.exec(ctx, `INSERT INTO departure_times (id, schedule_id, time, created_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.ScheduleID, d.Time, now)
	if err != nil {
		return fmt.Errorf("error inserting departure time: %w", err)
	}
	return writeLinks(ctx, q, d)
}

// writeLinks stores the departure's annotation and fare references in order. Repeated
// references are stored once.
func writeLinks(ctx context.Context, q queries, d *models.Departure) error {
	sets := []struct {
		table, column string
		ids           []string
	}{
		{"departure_time_infos", "time_info_id", d.AnnotationIDs},
		{"departure_time_fares", "fare_id", d.FareIDs},
	}
	for _, set := range sets {
		seen := map[string]bool{}
		for pos, ref := range set.ids {
			if ref == "" || seen[ref] {
				continue
			}
			seen[ref] = true
			_, err := q.exec(ctx, `INSERT INTO `+set.table+` (departure_time_id, `+set.column+`, position) VALUES (?, ?, ?)`,
				d.ID, ref, pos)
			if err != nil {
				return fmt.Errorf("error inserting %s: %w", set.table, err)
			}
		}
	}
	return nil
}

// UpdateDeparture changes the time and replaces the annotation and fare references.
func (c *Client) UpdateDeparture(ctx context.Context, d *models.Departure) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return c.withTx(ctx, "update_departure", func(q queries) error {
		if err := q.execOne(ctx, `UPDATE departure_times SET schedule_id = ?, time = ? WHERE id = ?`, d.ScheduleID, d.Time, d.ID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return err
			}
			return fmt.Errorf("error updating departure time %s: %w", d.ID, err)
		}
		if err := deleteLinks(ctx, q, d.ID); err != nil {
			return err
		}
		return writeLinks(ctx, q, d)
	})
}

func (c *Client) DeleteDeparture(ctx context.Context, id string) error {
	return c.withTx(ctx, "delete_departure", func(q queries) error {
		if err := deleteLinks(ctx, q, id); err != nil {
			return err
		}
		if err := q.execOne(ctx, `DELETE FROM departure_times WHERE id = ?`, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return err
			}
			return fmt.Errorf("error deleting departure time %s: %w", id, err)
		}
		return nil
	})
}

func deleteLinks(ctx context.Context, q queries, departureID string) error {
	for _, table := range []string{"departure_time_infos", "departure_time_fares"} {
		if _, err := q.exec(ctx, `DELETE FROM `+table+` WHERE departure_time_id = ?`, departureID); err != nil {
			return fmt.Errorf("error deleting %s: %w", table, err)
		}
	}
	return nil
}
