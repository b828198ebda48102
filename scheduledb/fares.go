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

const fareColumns = `id, schedule_id, name, fare_type, price, currency, description`

func scanFare(row interface{ Scan(...any) error }) (models.Fare, error) {
	var (
		f    models.Fare
		kind string
		desc sql.NullString
	)
	if err := row.Scan(&f.ID, &f.ScheduleID, &f.Name, &kind, &f.Price, &f.Currency, &desc); err != nil {
		return f, err
	}
	f.FareType = models.FareType(kind)
	f.Description = desc.String
	return f, nil
}

func (c *Client) loadFares(ctx context.Context, q queries, scheduleIDs []string) ([]models.Fare, error) {
	where, args := scopeClause("schedule_id", scheduleIDs)
	rows, err := q.query(ctx, `SELECT `+fareColumns+` FROM fares`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing fares: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_fares")

	var fares []models.Fare
	for rows.Next() {
		f, err := scanFare(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning fare: %w", err)
		}
		fares = append(fares, f)
	}
	return fares, rows.Err()
}

// ListFares returns the fares published for one schedule.
func (c *Client) ListFares(ctx context.Context, scheduleID string) ([]models.Fare, error) {
	fares, err := c.loadFares(ctx, c.queries(), []string{scheduleID})
	if fares == nil && err == nil {
		fares = []models.Fare{}
	}
	return fares, err
}

func (c *Client) GetFare(ctx context.Context, id string) (*models.Fare, error) {
	f, err := scanFare(c.queries().queryRow(ctx, `SELECT `+fareColumns+` FROM fares WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting fare %s: %w", id, err)
	}
	return &f, nil
}

func (c *Client) CreateFare(ctx context.Context, f *models.Fare) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return c.withTx(ctx, "create_fare", func(q queries) error {
		if err := scheduleExists(ctx, q, f.ScheduleID); err != nil {
			return err
		}
		return insertFare(ctx, q, f, c.now())
	})
}

func insertFare(ctx context.Context, q queries, f *models.Fare, now time.Time) error {
	ensureID(&f.ID)
	_, err := q.exec(ctx, `
		INSERT INTO fares (`+fareColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.ScheduleID, f.Name, string(f.FareType), f.Price, f.Currency, toNullString(f.Description), now,
	)
	if err != nil {
		return fmt.Errorf("error inserting fare: %w", err)
	}
	return nil
}

func (c *Client) UpdateFare(ctx context.Context, f *models.Fare) error {
	if err := f.Validate(); err != nil {
		return err
	}
	err := c.queries().execOne(ctx, `
		UPDATE fares SET schedule_id = ?, name = ?, fare_type = ?, price = ?, currency = ?, description = ?
		WHERE id = ?`,
		f.ScheduleID, f.Name, string(f.FareType), f.Price, f.Currency, toNullString(f.Description), f.ID,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error updating fare %s: %w", f.ID, err)
	}
	return err
}

// DeleteFare removes a fare and every departure's reference to it.
func (c *Client) DeleteFare(ctx context.Context, id string) error {
	return c.withTx(ctx, "delete_fare", func(q queries) error {
		if _, err := q.exec(ctx, `DELETE FROM departure_time_fares WHERE fare_id = ?`, id); err != nil {
			return fmt.Errorf("error deleting fare links: %w", err)
		}
		if err := q.execOne(ctx, `DELETE FROM fares WHERE id = ?`, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return err
			}
			return fmt.Errorf("error deleting fare %s: %w", id, err)
		}
		return nil
	})
}
