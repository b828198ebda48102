package scheduledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"timetable.transitboard.org/internal/appconf"
	"timetable.transitboard.org/internal/logging"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("scheduledb: not found")

// Client is the main entry point for the library
type Client struct {
	config  Config
	DB      *sql.DB
	dialect dialect
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient opens the database, applies the embedded schema and returns a ready Client.
func NewClient(config Config) (*Client, error) {
	d, err := dialectFor(config.Driver)
	if err != nil {
		return nil, err
	}

	db, err := createDB(config, d)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With(slog.String("component", "scheduledb"))
	if config.verbose {
		logging.LogOperation(logger, "database_ready",
			slog.String("driver", d.name))
	}

	return &Client{
		config:  config,
		DB:      db,
		dialect: d,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Driver reports which dialect the client speaks.
func (c *Client) Driver() string {
	return c.dialect.name
}

func createDB(config Config, d dialect) (*sql.DB, error) {
	if config.Env == appconf.Test && d.name == appconf.DriverSQLite && config.DSN != ":memory:" {
		return nil, fmt.Errorf("test database must use in-memory storage, got %s", config.DSN)
	}

	db, err := sql.Open(d.driverName, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if d.name == appconf.DriverSQLite {
		// Every connection to :memory: is a separate database and SQLite serialises writers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error enabling foreign keys: %w", err)
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := performDatabaseMigration(context.Background(), db, d.ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB, ddl string) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

// queries runs statements against either the pool or a transaction, rewriting
// placeholders for the active dialect.
type queries struct {
	q interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	}
	d dialect
}

func (q queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.q.ExecContext(ctx, q.d.rebind(query), args...)
}

func (q queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.q.QueryContext(ctx, q.d.rebind(query), args...)
}

func (q queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.q.QueryRowContext(ctx, q.d.rebind(query), args...)
}

// execOne runs a statement that must touch exactly one row.
func (q queries) execOne(ctx context.Context, query string, args ...any) error {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Client) queries() queries {
	return queries{q: c.DB, d: c.dialect}
}

// withTx runs fn inside a transaction and commits when fn succeeds.
func (c *Client) withTx(ctx context.Context, operation string, fn func(q queries) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, operation)

	if err := fn(queries{q: tx, d: c.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
