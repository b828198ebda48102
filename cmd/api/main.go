package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"timetable.transitboard.org/internal/app"
	"timetable.transitboard.org/internal/appconf"
	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/metrics"
	"timetable.transitboard.org/internal/restapi"
	"timetable.transitboard.org/internal/snapshot"
	"timetable.transitboard.org/scheduledb"
)

func main() {
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := appconf.Load("api", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewLogger(os.Stdout, cfg.Env == appconf.Development, cfg.Verbose)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := scheduledb.NewClient(scheduledb.NewConfig(cfg.DBDriver, cfg.DatabaseURL, cfg.Env, cfg.Verbose))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer logging.SafeCloseWithLogging(store, logger, "database")

	m := metrics.New()

	var cache snapshot.Cache
	if cfg.CachePath != "" {
		cache = snapshot.NewFileCache(cfg.CachePath)
	}

	manager, err := snapshot.NewManager(ctx, store, cache, snapshot.Config{
		RefreshInterval: cfg.RefreshInterval,
		Logger:          logger,
		Metrics:         m,
	})
	if err != nil {
		return err
	}
	defer manager.Shutdown()

	api := restapi.NewRestAPI(&app.Application{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Snapshots: manager,
		Metrics:   m,
		Location:  loc,
	})
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String(), "db_driver", cfg.DBDriver, "timezone", loc.String())
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
