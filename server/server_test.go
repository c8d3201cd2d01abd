package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/travel"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	return New(DomainPlanner{}, func(o *Options) {
		o.Version = "1.0.0-test"
		o.Agents = []string{"Concierge", "FlightAgent", "HotelAgent"}
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return rec
}

func TestServer_Root(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "SmartTravel API", body["message"])
	assert.Equal(t, "1.0.0-test", body["version"])
}

func TestServer_Health(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestServer_Status(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string   `json:"status"`
		Agents []string `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "ready", body.Status)
	assert.Contains(t, body.Agents, "Concierge")
}

func TestServer_PlanTrip(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/plan_trip", PlanTripRequest{
		Destination: "Lisbon",
		Origin:      "Berlin",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
		Travelers:   2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Lisbon", body.Destination)
	assert.Equal(t, 5, body.DurationDays)
	assert.Len(t, body.DailySchedule, 5)
	assert.NotEmpty(t, body.Flights)
	assert.NotEmpty(t, body.Accommodations)
	assert.Positive(t, body.TotalEstimatedCost)
	assert.Equal(t, "Trip plan generated successfully", body.Message)
}

func TestServer_PlanTrip_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     PlanTripRequest
		wantErr string
	}{
		{
			name:    "missing destination",
			req:     PlanTripRequest{StartDate: "2026-09-01", EndDate: "2026-09-05"},
			wantErr: "destination is required",
		},
		{
			name:    "bad start date",
			req:     PlanTripRequest{Destination: "Lisbon", StartDate: "Sept 1", EndDate: "2026-09-05"},
			wantErr: "start_date",
		},
		{
			name:    "end before start",
			req:     PlanTripRequest{Destination: "Lisbon", StartDate: "2026-09-05", EndDate: "2026-09-01"},
			wantErr: "end_date must be after start_date",
		},
		{
			name:    "too many travelers",
			req:     PlanTripRequest{Destination: "Lisbon", StartDate: "2026-09-01", EndDate: "2026-09-05", Travelers: 21},
			wantErr: "travelers",
		},
		{
			name:    "negative budget",
			req:     PlanTripRequest{Destination: "Lisbon", StartDate: "2026-09-01", EndDate: "2026-09-05", Budget: -10},
			wantErr: "budget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestServer(t), http.MethodPost, "/plan_trip", tt.req)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestServer_PlanTrip_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/plan_trip", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PlanTrip_TravelersDefault(t *testing.T) {
	req := PlanTripRequest{Destination: "Lisbon", StartDate: "2026-09-01", EndDate: "2026-09-02"}
	require.NoError(t, req.Validate())
	assert.Equal(t, 1, req.Travelers)
}

type failingPlanner struct{}

func (failingPlanner) PlanTrip(context.Context, travel.TripRequest) (travel.Itinerary, error) {
	return travel.Itinerary{}, errors.New("planner unavailable")
}

func TestServer_PlanTrip_PlannerError(t *testing.T) {
	s := New(failingPlanner{})

	rec := doJSON(t, s, http.MethodPost, "/plan_trip", PlanTripRequest{
		Destination: "Lisbon",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "trip planning failed", body["error"])
}
