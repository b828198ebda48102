package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"timetable.transitboard.org/internal/app"
	"timetable.transitboard.org/internal/appconf"
	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/metrics"
	"timetable.transitboard.org/internal/models"
	"timetable.transitboard.org/internal/snapshot"
	"timetable.transitboard.org/scheduledb"
)

// testNow is a Monday morning.
var testNow = time.Date(2024, time.March, 4, 7, 30, 0, 0, time.UTC)

func seedStore(t *testing.T, store *scheduledb.Client) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.CreateRoute(ctx, &models.Route{
		ID: "harbour", Name: "Harbour Ferry", Origin: "Circular Quay", Destination: "Manly",
		TransportType: models.TransportFerry,
	}))
	require.NoError(t, store.CreateTimeInfo(ctx, &models.TimeAnnotation{Symbol: "c", Description: "Wheelchair accessible"}))
	require.NoError(t, store.CreateSchedule(ctx, &models.Schedule{
		ID: "harbour-weekday", RouteID: "harbour", Name: "Weekdays",
		Tags:          models.WeekdayTags,
		EffectiveFrom: models.NewDate(2024, time.January, 1),
		Fares: []models.Fare{
			{ID: "adult", Name: "Adult", FareType: models.FareStandard, Price: 7.5, Currency: "AUD"},
		},
		Departures: []models.Departure{
			{Time: models.NewClockTime(7, 0), AnnotationIDs: []string{"c"}},
			{Time: models.NewClockTime(8, 0), FareIDs: []string{"adult"}},
			{Time: models.NewClockTime(9, 30)},
		},
	}))
	require.NoError(t, store.CreateSchedule(ctx, &models.Schedule{
		ID: "harbour-holiday", RouteID: "harbour", Name: "Public Holidays",
		Tags:          models.HolidayTags,
		EffectiveFrom: models.NewDate(2024, time.January, 1),
		Departures:    []models.Departure{{Time: models.NewClockTime(10, 0)}},
	}))
	require.NoError(t, store.CreateHoliday(ctx, &models.PublicHoliday{
		Date: models.NewDate(2024, time.December, 25), Title: "Christmas Day",
	}))

	from, until := models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 10)
	require.NoError(t, store.CreateAnnouncement(ctx, &models.Announcement{
		ID: "global", Title: "Timetable change", Content: "New timetables from April.", Urgency: models.UrgencyInfo,
	}))
	require.NoError(t, store.CreateAnnouncement(ctx, &models.Announcement{
		ID: "wharf", Title: "Wharf closed", Content: "Manly wharf 2 closed.", RouteID: "harbour",
		Urgency: models.UrgencyUrgent, EffectiveFrom: &from, EffectiveUntil: &until,
	}))
}

// createTestApi builds a RestAPI over a seeded in-memory database.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	store, err := scheduledb.NewClient(scheduledb.NewConfig(appconf.DriverSQLite, ":memory:", appconf.Test, false))
	require.NoError(t, err)
	seedStore(t, store)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	manager, err := snapshot.NewManager(context.Background(), store, nil, snapshot.Config{Logger: logger, Metrics: m})
	require.NoError(t, err)

	application := &app.Application{
		Config: appconf.Config{
			Env:         appconf.Test,
			ApiKeys:     []string{"TEST"},
			RateLimit:   1000,
			CORSOrigins: []string{"*"},
		},
		Logger:    logger,
		Store:     store,
		Snapshots: manager,
		Metrics:   m,
		Location:  time.UTC,
		Clock:     func() time.Time { return testNow },
	}

	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Close()
		manager.Shutdown()
		_ = store.Close()
	})
	return api
}

// serveApiAndRetrieveEndpoint performs a GET against a test server and decodes the envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	resp, body := doRequest(t, api, http.MethodGet, endpoint, "")

	var response models.ResponseModel
	require.NoError(t, json.Unmarshal(body, &response), string(body))
	return resp, response
}

func doRequest(t *testing.T, api *RestAPI, method, endpoint, body string) (*http.Response, []byte) {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeMap(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "list should be an array")
	return list
}
