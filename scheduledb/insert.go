package scheduledb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
)

// ImportStats summarises one ReplaceRoutes call.
type ImportStats struct {
	Routes     int
	Schedules  int
	Departures int
	Duration   time.Duration
}

// ReplaceRoutes writes routes and their schedules in a single transaction. Any route that
// already exists under the same id is deleted first, together with its schedules, so a
// feed can be imported repeatedly.
func (c *Client) ReplaceRoutes(ctx context.Context, routes []models.Route, schedules []models.Schedule) (ImportStats, error) {
	start := time.Now()
	stats := ImportStats{}

	for i := range routes {
		if err := routes[i].Validate(); err != nil {
			return stats, fmt.Errorf("route %s: %w", routes[i].ID, err)
		}
	}
	for i := range schedules {
		if err := schedules[i].Validate(); err != nil {
			return stats, fmt.Errorf("schedule %s: %w", schedules[i].Name, err)
		}
	}

	err := c.withTx(ctx, "replace_routes", func(q queries) error {
		now := c.now()
		for i := range routes {
			r := &routes[i]
			if r.ID != "" {
				if err := deleteRoute(ctx, q, r.ID); err != nil && !errors.Is(err, ErrNotFound) {
					return err
				}
			}
			if err := insertRoute(ctx, q, r, now); err != nil {
				return err
			}
			stats.Routes++
		}
		for i := range schedules {
			s := &schedules[i]
			if err := insertSchedule(ctx, q, s, now); err != nil {
				return fmt.Errorf("schedule %s: %w", s.Name, err)
			}
			stats.Schedules++
			stats.Departures += len(s.Departures)
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}

	stats.Duration = time.Since(start)
	if c.config.verbose {
		logging.LogOperation(c.logger, "routes_replaced",
			slog.Int("routes", stats.Routes),
			slog.Int("schedules", stats.Schedules),
			slog.Int("departures", stats.Departures),
			slog.Duration("duration", stats.Duration))
	}
	return stats, nil
}
