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

const routeColumns = `id, name, code, description, origin, destination, transport_type, featured_image, created_at, updated_at`

func scanRoute(row interface{ Scan(...any) error }) (models.Route, error) {
	var (
		r                          models.Route
		code, desc, featured, kind sql.NullString
	)
	err := row.Scan(&r.ID, &r.Name, &code, &desc, &r.Origin, &r.Destination, &kind, &featured, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}
	r.Code = code.String
	r.Description = desc.String
	r.FeaturedImage = featured.String
	r.TransportType = models.TransportType(kind.String)
	return r, nil
}

// ListRoutes returns every route ordered by name.
func (c *Client) ListRoutes(ctx context.Context) ([]models.Route, error) {
	rows, err := c.queries().query(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing routes: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_routes")

	routes := []models.Route{}
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning route: %w", err)
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

func (c *Client) GetRoute(ctx context.Context, id string) (*models.Route, error) {
	r, err := scanRoute(c.queries().queryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting route %s: %w", id, err)
	}
	return &r, nil
}

// CreateRoute validates and inserts r, assigning an id when it has none.
func (c *Client) CreateRoute(ctx context.Context, r *models.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return insertRoute(ctx, c.queries(), r, c.now())
}

func insertRoute(ctx context.Context, q queries, r *models.Route, now time.Time) error {
	ensureID(&r.ID)
	r.CreatedAt, r.UpdatedAt = now, now
	_, err := q.exec(ctx, `
		INSERT INTO routes (`+routeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, toNullString(r.Code), toNullString(r.Description), r.Origin, r.Destination,
		string(r.TransportType), toNullString(r.FeaturedImage), now, now,
	)
	if err != nil {
		return fmt.Errorf("error inserting route: %w", err)
	}
	return nil
}

func (c *Client) UpdateRoute(ctx context.Context, r *models.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.UpdatedAt = c.now()
	err := c.queries().execOne(ctx, `
		UPDATE routes SET name = ?, code = ?, description = ?, origin = ?, destination = ?,
			transport_type = ?, featured_image = ?, updated_at = ?
		WHERE id = ?`,
		r.Name, toNullString(r.Code), toNullString(r.Description), r.Origin, r.Destination,
		string(r.TransportType), toNullString(r.FeaturedImage), r.UpdatedAt, r.ID,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error updating route %s: %w", r.ID, err)
	}
	return err
}

// DeleteRoute removes a route with its schedules. Announcements pinned to it become global.
func (c *Client) DeleteRoute(ctx context.Context, id string) error {
	return c.withTx(ctx, "delete_route", func(q queries) error {
		return deleteRoute(ctx, q, id)
	})
}

func deleteRoute(ctx context.Context, q queries, id string) error {
	ids, err := scheduleIDsForRoute(ctx, q, id)
	if err != nil {
		return err
	}
	for _, sid := range ids {
		if err := deleteSchedule(ctx, q, sid); err != nil {
			return err
		}
	}
	if _, err := q.exec(ctx, `UPDATE announcements SET route_id = NULL WHERE route_id = ?`, id); err != nil {
		return fmt.Errorf("error detaching announcements: %w", err)
	}
	if err := q.execOne(ctx, `DELETE FROM routes WHERE id = ?`, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("error deleting route %s: %w", id, err)
	}
	return nil
}
