package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestExtractIDFromParams(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "Basic ID",
			id:   "123",
			want: "123",
		},
		{
			name: "ID with JSON extension",
			id:   "456.json",
			want: "456",
		},
		{
			name: "GTFS schedule ID",
			id:   "gtfs-R1:WK",
			want: "gtfs-R1:WK",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()

			var result string
			router.HandlerFunc(http.MethodGet, "/api/test/:id", func(w http.ResponseWriter, r *http.Request) {
				result = ExtractIDFromParams(r, "id")
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/test/"+tc.id, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, result, "ExtractIDFromParams should correctly extract and clean the ID")
		})
	}
}

func TestAPIKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/routes?key=query", nil)
	req.Header.Set("X-API-Key", "header")
	assert.Equal(t, "query", APIKey(req), "query parameter wins")

	req = httptest.NewRequest(http.MethodGet, "/api/admin/routes", nil)
	req.Header.Set("X-API-Key", "header")
	assert.Equal(t, "header", APIKey(req))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/routes", nil)
	assert.Empty(t, APIKey(req))
}
