package gtfs

import (
	"context"
	"fmt"
	"log/slog"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/scheduledb"
)

// Writer is the storage side of an import. *scheduledb.Client satisfies it.
type Writer interface {
	ReplaceRoutes(ctx context.Context, routes []models.Route, schedules []models.Schedule) (scheduledb.ImportStats, error)
}

type Importer struct {
	config Config
	store  Writer
	logger *slog.Logger
}

func NewImporter(config Config, store Writer, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{config: config, store: store, logger: logger.With(slog.String("component", "gtfs_import"))}
}

// Import loads the configured feed, converts it and writes it in one transaction.
func (im *Importer) Import(ctx context.Context) (scheduledb.ImportStats, error) {
	static, err := LoadStatic(logging.WithLogger(ctx, im.logger), im.config)
	if err != nil {
		return scheduledb.ImportStats{}, err
	}

	logging.LogOperation(im.logger, "gtfs_feed_parsed",
		slog.String("source", im.config.Source),
		slog.Int("routes", len(static.Routes)),
		slog.Int("services", len(static.Services)),
		slog.Int("trips", len(static.Trips)),
		slog.Int("parse_warnings", len(static.Warnings)))

	feed := Convert(static, im.config.IDPrefix)
	for _, w := range feed.Warnings {
		im.logger.Warn("gtfs conversion warning", slog.String("detail", w))
	}
	if len(feed.Routes) == 0 {
		return scheduledb.ImportStats{}, fmt.Errorf("feed %s contains no usable routes", im.config.Source)
	}

	stats, err := im.store.ReplaceRoutes(ctx, feed.Routes, feed.Schedules)
	if err != nil {
		return scheduledb.ImportStats{}, fmt.Errorf("error storing GTFS routes: %w", err)
	}

	logging.LogOperation(im.logger, "gtfs_feed_imported",
		slog.Int("routes", stats.Routes),
		slog.Int("schedules", stats.Schedules),
		slog.Int("departures", stats.Departures),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}
