package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// sendError writes an error body. Error bodies carry version 1, unlike successful responses.
func (api *RestAPI) sendError(w http.ResponseWriter, status int, text string) {
	response := errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     1,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode error response", "error", err, "status", status)
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response for a missing or unknown key
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("component", "http_server"))
	api.sendError(w, http.StatusInternalServerError, "internal server error")
}

func (api *RestAPI) unavailableResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, http.StatusServiceUnavailable, "service unavailable")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}

// fieldForDecodeError names the field a JSON body error belongs to.
func fieldForDecodeError(err error) string {
	var timeErr *models.InvalidTimeError
	var dateErr *models.InvalidDateError
	switch {
	case errors.As(err, &timeErr):
		return "time"
	case errors.As(err, &dateErr):
		return "date"
	default:
		return "body"
	}
}
