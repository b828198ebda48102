package scheduledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
)

const announcementColumns = `id, title, content, route_id, urgency, effective_from, effective_until, created_at, updated_at`

func scanAnnouncement(row interface{ Scan(...any) error }) (models.Announcement, error) {
	var (
		a           models.Announcement
		routeID     sql.NullString
		urgency     string
		from, until nullDate
	)
	err := row.Scan(&a.ID, &a.Title, &a.Content, &routeID, &urgency, &from, &until, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.RouteID = routeID.String
	a.Urgency = models.Urgency(urgency)
	a.EffectiveFrom = from.Date
	a.EffectiveUntil = until.Date
	return a, nil
}

// ListAnnouncements returns every announcement, newest first.
func (c *Client) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := c.queries().query(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_announcements")

	announcements := []models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning announcement: %w", err)
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (c *Client) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	a, err := scanAnnouncement(c.queries().queryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting announcement %s: %w", id, err)
	}
	return &a, nil
}

func (c *Client) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	ensureID(&a.ID)
	now := c.now()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := c.queries().exec(ctx, `
		INSERT INTO announcements (`+announcementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Content, toNullString(a.RouteID), string(a.Urgency),
		dateArg(a.EffectiveFrom), dateArg(a.EffectiveUntil), now, now,
	)
	if err != nil {
		return fmt.Errorf("error inserting announcement: %w", err)
	}
	return nil
}

func (c *Client) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.UpdatedAt = c.now()
	err := c.queries().execOne(ctx, `
		UPDATE announcements SET title = ?, content = ?, route_id = ?, urgency = ?,
			effective_from = ?, effective_until = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Content, toNullString(a.RouteID), string(a.Urgency),
		dateArg(a.EffectiveFrom), dateArg(a.EffectiveUntil), a.UpdatedAt, a.ID,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error updating announcement %s: %w", a.ID, err)
	}
	return err
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id string) error {
	err := c.queries().execOne(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error deleting announcement %s: %w", id, err)
	}
	return err
}
