package webui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"timetable.transitboard.org/internal/app"
	"timetable.transitboard.org/internal/models"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"status", "routes", "schedules", "time_infos", "holidays", "announcements", "table_counts"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DebugIndexHandler dumps the live snapshot one collection at a time, selected with ?dataType=.
func DebugIndexHandler(application *app.Application) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := &models.Snapshot{}
		if application.Snapshots != nil {
			if s := application.Snapshots.Snapshot(); s != nil {
				snap = s
			}
		}

		var data interface{}
		var title string

		switch r.URL.Query().Get("dataType") {
		case "status":
			title = "Snapshot - Status"
			if application.Snapshots != nil {
				data = application.Snapshots.Status()
			}
		case "routes":
			data = snap.Routes
			title = "Snapshot - Routes"
		case "schedules":
			data = snap.Schedules
			title = "Snapshot - Schedules"
		case "time_infos":
			data = snap.TimeAnnotations
			title = "Snapshot - Time Infos"
		case "holidays":
			data = snap.Holidays
			title = "Snapshot - Public Holidays"
		case "announcements":
			data = snap.Announcements
			title = "Snapshot - Announcements"
		case "table_counts":
			title = "Database - Table Counts"
			if application.Store == nil {
				data = map[string]string{"error": "no database configured"}
				break
			}
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			counts, err := application.Store.TableCounts(ctx)
			if err != nil {
				data = map[string]string{"error": err.Error()}
				break
			}
			data = counts
		default:
			data = map[string]string{
				"error": "Please choose one of the data types above.",
			}
			title = "Choose a data type"
		}

		writeDebugData(w, title, data)
	})
}
