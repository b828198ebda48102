// Command import-gtfs replaces the stored routes and schedules with those of a GTFS
// static feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timetable.transitboard.org/internal/appconf"
	"timetable.transitboard.org/internal/gtfs"
	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/scheduledb"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := appconf.LoadDotEnv(); err != nil {
		return err
	}

	var feed gtfs.Config
	cfg, err := appconf.Load("import-gtfs", args, func(fs *flag.FlagSet) {
		fs.StringVar(&feed.Source, "source", os.Getenv("GTFS_SOURCE"), "Path or URL of a static GTFS zip file")
		fs.StringVar(&feed.IDPrefix, "prefix", os.Getenv("GTFS_ID_PREFIX"), "Prefix added to imported route ids")
		fs.DurationVar(&feed.Timeout, "timeout", 2*time.Minute, "Download timeout for remote feeds")
	})
	if err != nil {
		return err
	}
	if feed.Source == "" {
		return fmt.Errorf("a feed is required, pass -source or set GTFS_SOURCE")
	}

	logger := logging.NewLogger(os.Stdout, cfg.Env == appconf.Development, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := scheduledb.NewClient(scheduledb.NewConfig(cfg.DBDriver, cfg.DatabaseURL, cfg.Env, cfg.Verbose))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer logging.SafeCloseWithLogging(store, logger, "database")

	stats, err := gtfs.NewImporter(feed, store, logger).Import(ctx)
	if err != nil {
		logging.LogError(logger, "GTFS import failed", err, slog.String("source", feed.Source))
		return err
	}

	fmt.Printf("imported %d routes, %d schedules, %d departures in %s\n",
		stats.Routes, stats.Schedules, stats.Departures, stats.Duration.Round(time.Millisecond))
	return nil
}
