package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timetable.transitboard.org/internal/models"
)

func TestAdminRequiresValidApiKey(t *testing.T) {
	api := createTestApi(t)

	for _, endpoint := range []string{"/api/admin/routes", "/api/admin/routes?key=INVALID"} {
		resp, body := doRequest(t, api, http.MethodPost, endpoint, `{"name":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var model models.ResponseModel
		require.NoError(t, json.Unmarshal(body, &model))
		assert.Equal(t, http.StatusUnauthorized, model.Code)
		assert.Equal(t, "permission denied", model.Text)
		assert.Equal(t, 1, model.Version)
	}
}

func TestAdminRouteLifecycle(t *testing.T) {
	api := createTestApi(t)

	resp, body := doRequest(t, api, http.MethodPost, "/api/admin/routes?key=TEST",
		`{"id":"inner-west","name":"Inner West","origin":"Central","destination":"Ashfield","transportType":"train"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/routes")
	assert.Len(t, listOf(t, model), 2, "the snapshot is refreshed after writes")

	resp, body = doRequest(t, api, http.MethodPut, "/api/admin/routes/inner-west?key=TEST",
		`{"name":"Inner West Line","origin":"Central","destination":"Strathfield"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	_, model = serveApiAndRetrieveEndpoint(t, api, "/api/routes/inner-west")
	entry := entryOf(t, model)
	assert.Equal(t, "Inner West Line", entry["name"])
	assert.Equal(t, "bus", entry["transportType"], "missing transport type defaults to bus")

	resp, _ = doRequest(t, api, http.MethodDelete, "/api/admin/routes/inner-west?key=TEST", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, api, http.MethodGet, "/api/routes/inner-west", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminMissingRowsAreNotFound(t *testing.T) {
	api := createTestApi(t)

	resp, _ := doRequest(t, api, http.MethodPut, "/api/admin/holidays/nope?key=TEST", `{"date":"2024-01-26","title":"Australia Day"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, api, http.MethodDelete, "/api/admin/fares/nope?key=TEST", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminValidationErrors(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name     string
		endpoint string
		body     string
		field    string
	}{
		{"route without name", "/api/admin/routes", `{"origin":"A","destination":"B"}`, "route"},
		{"unknown field", "/api/admin/routes", `{"name":"A","origin":"A","destination":"B","colour":"red"}`, "body"},
		{"malformed json", "/api/admin/routes", `{"name":`, "body"},
		{"bad departure time", "/api/admin/departure-times", `{"scheduleId":"harbour-weekday","time":"25:00"}`, "time"},
		{"departure for missing schedule", "/api/admin/departure-times", `{"scheduleId":"nope","time":"11:00"}`, "scheduleId"},
		{"schedule for missing route", "/api/admin/schedules", `{"routeId":"nope","tags":["sat"],"effectiveFrom":"2024-01-01"}`, "routeId"},
		{"schedule with reversed range", "/api/admin/schedules", `{"routeId":"harbour","tags":["sat"],"effectiveFrom":"2024-02-01","effectiveUntil":"2024-01-01"}`, "schedule"},
		{"schedule with bad nested fare", "/api/admin/schedules", `{"routeId":"harbour","tags":["sat"],"effectiveFrom":"2024-01-01","fares":[{"name":"Adult","price":-1}]}`, "schedule"},
		{"fare with unknown currency", "/api/admin/fares", `{"scheduleId":"harbour-weekday","name":"Adult","price":2,"currency":"XYZ1"}`, "fare"},
		{"holiday with bad date", "/api/admin/holidays", `{"date":"25/12/2024","title":"Christmas"}`, "date"},
		{"announcement for missing route", "/api/admin/announcements", `{"title":"T","content":"C","routeId":"nope"}`, "routeId"},
		{"time info without symbol", "/api/admin/time-infos", `{"description":"x"}`, "timeInfo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, api, http.MethodPost, tt.endpoint+"?key=TEST", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			fieldErrors, ok := decodeMap(t, body)["fieldErrors"].(map[string]interface{})
			require.True(t, ok, string(body))
			assert.Contains(t, fieldErrors, tt.field)
		})
	}
}

func TestAdminDepartureChangesBoard(t *testing.T) {
	api := createTestApi(t)

	resp, body := doRequest(t, api, http.MethodPost, "/api/admin/departure-times?key=TEST",
		`{"scheduleId":"harbour-weekday","time":"07:45","annotationIds":["c"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	created := decodeMap(t, body)["data"].(map[string]interface{})["entry"].(map[string]interface{})
	id, _ := created["id"].(string)
	require.NotEmpty(t, id, "an id is assigned")

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/routes/harbour/board")
	next := entryOf(t, model)["next"].(map[string]interface{})
	assert.Equal(t, "07:45", next["time"])
	assert.Equal(t, float64(15), next["minutesUntil"])

	resp, _ = doRequest(t, api, http.MethodDelete, "/api/admin/departure-times/"+id+"?key=TEST", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, model = serveApiAndRetrieveEndpoint(t, api, "/api/routes/harbour/board")
	assert.Equal(t, "08:00", entryOf(t, model)["next"].(map[string]interface{})["time"])
}

func TestAdminScheduleWithNestedRows(t *testing.T) {
	api := createTestApi(t)

	resp, body := doRequest(t, api, http.MethodPost, "/api/admin/schedules?key=TEST", `{
		"id": "harbour-weekend",
		"routeId": "harbour",
		"name": "Weekends",
		"tags": ["sat", "sun"],
		"effectiveFrom": "2024-01-01",
		"fares": [{"id": "weekend-adult", "name": "Adult", "price": 5, "currency": "AUD"}],
		"departures": [{"time": "09:00", "fareIds": ["weekend-adult"]}, {"time": "11:00"}]
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/routes/harbour/board?date=2024-03-09")
	board := entryOf(t, model)
	assert.Equal(t, true, board["hasService"])
	departures := board["departures"].([]interface{})
	require.Len(t, departures, 2)
	assert.Len(t, departures[0].(map[string]interface{})["fares"], 1)

	schedules, err := api.Store.ListSchedulesForRoute(context.Background(), "harbour")
	require.NoError(t, err)
	assert.Len(t, schedules, 3)
}

func TestAdminAnnouncementAndHoliday(t *testing.T) {
	api := createTestApi(t)

	resp, body := doRequest(t, api, http.MethodPost, "/api/admin/holidays?key=TEST", `{"date":"2024-03-04","title":"<b>Labour</b> Day"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/calendar/2024-03-04")
	day := entryOf(t, model)
	assert.Equal(t, true, day["isHoliday"])
	assert.Equal(t, "Labour Day", day["holiday"].(map[string]interface{})["title"], "markup is stripped")

	_, model = serveApiAndRetrieveEndpoint(t, api, "/api/routes/harbour/board")
	assert.Equal(t, "Public Holidays", entryOf(t, model)["schedule"].(map[string]interface{})["name"])

	resp, body = doRequest(t, api, http.MethodPost, "/api/admin/announcements?key=TEST",
		`{"title":"Strike","content":"Reduced service","routeId":"harbour","urgency":"important"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	_, model = serveApiAndRetrieveEndpoint(t, api, "/api/announcements?route=harbour")
	list := listOf(t, model)
	require.Len(t, list, 3)
	assert.Equal(t, "Strike", list[1].(map[string]interface{})["title"])
}
