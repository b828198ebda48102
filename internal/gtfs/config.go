package gtfs

import (
	"strings"
	"time"
)

type Config struct {
	Source   string        // path to a GTFS zip or an http(s) URL
	IDPrefix string        // prepended to GTFS route ids to keep them apart from admin-created routes
	Timeout  time.Duration // download timeout for URL sources
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.Source, "http://") && !strings.HasPrefix(config.Source, "https://")
}
