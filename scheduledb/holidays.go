package scheduledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
)

func scanHoliday(row interface{ Scan(...any) error }) (models.PublicHoliday, error) {
	var (
		h    models.PublicHoliday
		desc sql.NullString
	)
	if err := row.Scan(&h.ID, &h.Title, &h.Date, &desc); err != nil {
		return h, err
	}
	h.Description = desc.String
	return h, nil
}

// ListHolidays returns every public holiday in date order.
func (c *Client) ListHolidays(ctx context.Context) ([]models.PublicHoliday, error) {
	rows, err := c.queries().query(ctx, `SELECT id, name, date, description FROM public_holidays ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing public holidays: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_holidays")

	holidays := []models.PublicHoliday{}
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning public holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (c *Client) GetHoliday(ctx context.Context, id string) (*models.PublicHoliday, error) {
	h, err := scanHoliday(c.queries().queryRow(ctx, `SELECT id, name, date, description FROM public_holidays WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting public holiday %s: %w", id, err)
	}
	return &h, nil
}

func (c *Client) CreateHoliday(ctx context.Context, h *models.PublicHoliday) error {
	if err := h.Validate(); err != nil {
		return err
	}
	ensureID(&h.ID)
	_, err := c.queries().exec(ctx, `INSERT INTO public_holidays (id, name, date, description) VALUES (?, ?, ?, ?)`,
		h.ID, h.Title, h.Date, toNullString(h.Description))
	if err != nil {
		return fmt.Errorf("error inserting public holiday: %w", err)
	}
	return nil
}

func (c *Client) UpdateHoliday(ctx context.Context, h *models.PublicHoliday) error {
	if err := h.Validate(); err != nil {
		return err
	}
	err := c.queries().execOne(ctx, `UPDATE public_holidays SET name = ?, date = ?, description = ? WHERE id = ?`,
		h.Title, h.Date, toNullString(h.Description), h.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error updating public holiday %s: %w", h.ID, err)
	}
	return err
}

func (c *Client) DeleteHoliday(ctx context.Context, id string) error {
	err := c.queries().execOne(ctx, `DELETE FROM public_holidays WHERE id = ?`, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error deleting public holiday %s: %w", id, err)
	}
	return err
}
