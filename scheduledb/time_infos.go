package scheduledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
)

func (c *Client) ListTimeInfos(ctx context.Context) ([]models.TimeAnnotation, error) {
	rows, err := c.queries().query(ctx, `SELECT id, symbol, description FROM time_infos ORDER BY symbol, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing time infos: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_time_infos")

	infos := []models.TimeAnnotation{}
	for rows.Next() {
		var a models.TimeAnnotation
		if err := rows.Scan(&a.ID, &a.Symbol, &a.Description); err != nil {
			return nil, fmt.Errorf("error scanning time info: %w", err)
		}
		infos = append(infos, a)
	}
	return infos, rows.Err()
}

func (c *Client) GetTimeInfo(ctx context.Context, id string) (*models.TimeAnnotation, error) {
	var a models.TimeAnnotation
	err := c.queries().queryRow(ctx, `SELECT id, symbol, description FROM time_infos WHERE id = ?`, id).
		Scan(&a.ID, &a.Symbol, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting time info %s: %w", id, err)
	}
	return &a, nil
}

// CreateTimeInfo inserts a. Without an explicit id the symbol doubles as the id, which is
// how seeded feeds reference annotations.
func (c *Client) CreateTimeInfo(ctx context.Context, a *models.TimeAnnotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = a.Symbol
	}
	_, err := c.queries().exec(ctx, `INSERT INTO time_infos (id, symbol, description) VALUES (?, ?, ?)`,
		a.ID, a.Symbol, a.Description)
	if err != nil {
		return fmt.Errorf("error inserting time info: %w", err)
	}
	return nil
}

func (c *Client) UpdateTimeInfo(ctx context.Context, a *models.TimeAnnotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	err := c.queries().execOne(ctx, `UPDATE time_infos SET symbol = ?, description = ? WHERE id = ?`,
		a.Symbol, a.Description, a.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error updating time info %s: %w", a.ID, err)
	}
	return err
}

// DeleteTimeInfo removes an annotation and the departures' references to it.
func (c *Client) DeleteTimeInfo(ctx context.Context, id string) error {
	return c.withTx(ctx, "delete_time_info", func(q queries) error {
		if _, err := q.exec(ctx, `DELETE FROM departure_time_infos WHERE time_info_id = ?`, id); err != nil {
			return fmt.Errorf("error deleting time info links: %w", err)
		}
		if err := q.execOne(ctx, `DELETE FROM time_infos WHERE id = ?`, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return err
			}
			return fmt.Errorf("error deleting time info %s: %w", id, err)
		}
		return nil
	})
}
