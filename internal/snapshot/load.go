// Package snapshot keeps the read-only collections the board resolver works on.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"timetable.transitboard.org/internal/models"
)

// Reader is the storage collaborator. *scheduledb.Client satisfies it.
type Reader interface {
	ListRoutes(ctx context.Context) ([]models.Route, error)
	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	ListTimeInfos(ctx context.Context) ([]models.TimeAnnotation, error)
	ListHolidays(ctx context.Context) ([]models.PublicHoliday, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
}

// Load fetches the five collections concurrently. The first failure cancels the others
// and fails the whole load.
func Load(ctx context.Context, r Reader) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Routes, err = r.ListRoutes(ctx)
		return wrap("routes", err)
	})
	g.Go(func() (err error) {
		snap.Schedules, err = r.ListSchedules(ctx)
		return wrap("schedules", err)
	})
	g.Go(func() (err error) {
		snap.TimeAnnotations, err = r.ListTimeInfos(ctx)
		return wrap("time infos", err)
	})
	g.Go(func() (err error) {
		snap.Holidays, err = r.ListHolidays(ctx)
		return wrap("public holidays", err)
	})
	g.Go(func() (err error) {
		snap.Announcements, err = r.ListAnnouncements(ctx)
		return wrap("announcements", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.LoadedAt = time.Now().UTC()
	return snap, nil
}

func wrap(collection string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("loading %s: %w", collection, err)
}
