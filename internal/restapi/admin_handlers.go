package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/utils"
	"timetable.transitboard.org/scheduledb"
)

const maxBodyBytes = 1 << 20

// resource describes one admin collection. Every write is followed by a snapshot
// refresh so boards see the change without waiting for the ticker.
type resource[T any] struct {
	name string
	// parent is the field reported when the row the entity belongs to does not exist.
	parent   string
	sanitize func(*T)
	validate func(*T) error
	// check runs after validation for rules that need storage.
	check  func(ctx context.Context, v *T) map[string][]string
	setID  func(*T, string)
	create func(context.Context, *T) error
	update func(context.Context, *T) error
	remove func(context.Context, string) error
}

func registerResource[T any](api *RestAPI, router *httprouter.Router, path string, res resource[T]) {
	handle(router, http.MethodPost, path, validateAPIKey(api, createHandler(api, res)))
	handle(router, http.MethodPut, path+"/:id", validateAPIKey(api, updateHandler(api, res)))
	handle(router, http.MethodDelete, path+"/:id", validateAPIKey(api, deleteHandler(api, res)))
}

func createHandler[T any](api *RestAPI, res resource[T]) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := decodeEntity(api, w, r, res)
		if !ok {
			return
		}

		if err := res.create(r.Context(), v); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) && res.parent != "" {
				api.validationErrorResponse(w, r, map[string][]string{res.parent: {res.parent + " does not exist"}})
				return
			}
			api.serverErrorResponse(w, r, fmt.Errorf("creating %s: %w", res.name, err))
			return
		}

		api.afterWrite(r, "create", res.name)
		api.sendResponseWithStatus(w, r, http.StatusCreated,
			models.NewResponse(http.StatusCreated, map[string]interface{}{"entry": v}, "Created"))
	}
}

func updateHandler[T any](api *RestAPI, res resource[T]) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(api, w, r)
		if !ok {
			return
		}
		v, ok := decodeEntity(api, w, r, res)
		if !ok {
			return
		}
		res.setID(v, id)

		if err := res.update(r.Context(), v); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				api.sendNotFound(w, r)
				return
			}
			api.serverErrorResponse(w, r, fmt.Errorf("updating %s %s: %w", res.name, id, err))
			return
		}

		api.afterWrite(r, "update", res.name)
		api.sendResponse(w, r, models.NewEntryResponse(v, models.NewEmptyReferences()))
	}
}

func deleteHandler[T any](api *RestAPI, res resource[T]) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !api.requireStore(w, r) {
			return
		}
		id, ok := pathID(api, w, r)
		if !ok {
			return
		}

		if err := res.remove(r.Context(), id); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				api.sendNotFound(w, r)
				return
			}
			api.serverErrorResponse(w, r, fmt.Errorf("deleting %s %s: %w", res.name, id, err))
			return
		}

		api.afterWrite(r, "delete", res.name)
		api.sendResponse(w, r, models.NewEntryResponse(map[string]string{"id": id}, models.NewEmptyReferences()))
	}
}

func pathID(api *RestAPI, w http.ResponseWriter, r *http.Request) (string, bool) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return "", false
	}
	return id, true
}

// decodeEntity reads, sanitizes and validates the JSON body, answering 400 itself on failure.
func decodeEntity[T any](api *RestAPI, w http.ResponseWriter, r *http.Request, res resource[T]) (*T, bool) {
	if !api.requireStore(w, r) {
		return nil, false
	}

	v := new(T)
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{fieldForDecodeError(err): {err.Error()}})
		return nil, false
	}

	if res.sanitize != nil {
		res.sanitize(v)
	}
	if err := res.validate(v); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{res.name: {err.Error()}})
		return nil, false
	}
	if res.check != nil {
		if fieldErrors := res.check(r.Context(), v); len(fieldErrors) > 0 {
			api.validationErrorResponse(w, r, fieldErrors)
			return nil, false
		}
	}
	return v, true
}

// requireStore answers 503 when the server runs without a database.
func (api *RestAPI) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if api.Store == nil {
		api.unavailableResponse(w, r)
		return false
	}
	return true
}

// afterWrite refreshes the snapshot. The write already succeeded, so a failed refresh
// is logged and left to the next tick.
func (api *RestAPI) afterWrite(r *http.Request, op, name string) {
	logging.LogOperation(api.Logger, "admin_"+op,
		slog.String("resource", name),
		slog.String("component", "admin"))

	if api.Snapshots == nil {
		return
	}
	if err := api.Snapshots.Refresh(r.Context()); err != nil {
		logging.LogError(api.Logger, "snapshot refresh after admin write failed", err,
			slog.String("resource", name))
	}
}
