package restapi

import (
	"context"
	"net/http"
	"time"

	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/snapshot"
)

type healthStatus struct {
	Status   string           `json:"status"`
	Database string           `json:"database"`
	Snapshot *snapshot.Status `json:"snapshot,omitempty"`
}

// healthHandler reports storage connectivity and the snapshot source. Boards keep being
// served from the last snapshot while storage is down, so that only degrades the status.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "ok", Database: "connected"}
	if api.Snapshots != nil {
		s := api.Snapshots.Status()
		status.Snapshot = &s
	}

	if api.Store == nil {
		status.Database = "none"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := api.Store.Ping(ctx); err != nil {
			api.Logger.Warn("health check ping failed", "error", err)
			status.Database = "disconnected"
			status.Status = "degraded"
		}
	}

	if api.Snapshots == nil || api.Snapshots.Snapshot() == nil {
		status.Status = "unavailable"
		api.sendResponseWithStatus(w, r, http.StatusServiceUnavailable,
			models.NewResponse(http.StatusServiceUnavailable, status, "service unavailable"))
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(status))
}
