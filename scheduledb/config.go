package scheduledb

import "timetable.transitboard.org/internal/appconf"

// Config holds configuration options for the Client
type Config struct {
	Driver  string // appconf.DriverSQLite or appconf.DriverPostgres
	DSN     string // SQLite path or PostgreSQL URL
	Env     appconf.Environment
	verbose bool
}

func NewConfig(driver, dsn string, env appconf.Environment, verbose bool) Config {
	return Config{
		Driver:  driver,
		DSN:     dsn,
		Env:     env,
		verbose: verbose,
	}
}
