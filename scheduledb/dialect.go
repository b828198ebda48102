package scheduledb

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver

	"timetable.transitboard.org/internal/appconf"
)

//go:embed schema_sqlite.sql
var sqliteDDL string

//go:embed schema_postgres.sql
var postgresDDL string

// dialect captures the few places where SQLite and PostgreSQL differ.
type dialect struct {
	name       string
	driverName string
	ddl        string
	numbered   bool
}

var (
	sqliteDialect   = dialect{name: appconf.DriverSQLite, driverName: "sqlite", ddl: sqliteDDL}
	postgresDialect = dialect{name: appconf.DriverPostgres, driverName: "pgx", ddl: postgresDDL, numbered: true}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "", appconf.DriverSQLite:
		return sqliteDialect, nil
	case appconf.DriverPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// rebind rewrites ? placeholders into $1, $2, ... for PostgreSQL.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
