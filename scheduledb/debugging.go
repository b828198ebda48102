package scheduledb

import (
	"context"
	"fmt"
)

var tables = []string{
	"routes",
	"schedules",
	"departure_times",
	"departure_time_infos",
	"departure_time_fares",
	"fares",
	"time_infos",
	"public_holidays",
	"announcements",
}

// TableCounts returns the row count of every table the client manages.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := c.queries().queryRow(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("error counting %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
