package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precisely/internal/model"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","user":{"id":"u-1","email":"ada@example.com","name":"Ada"}}`))
	}))
	defer srv.Close()

	auth, err := New(srv.URL).Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", auth.AccessToken)
	assert.Equal(t, "u-1", auth.User.ID)
}

func TestListTripsSendsSessionAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trips", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"id": "t-1",
			"title": "Weekend in Paris",
			"destination": "Paris, France",
			"start_date": "2026-10-01",
			"end_date": "2026-10-03",
			"num_travelers": 2,
			"interests": ["art"],
			"budget_level": "mid",
			"planning_status": "completed",
			"created_at": "2026-08-01T12:00:00Z"
		}]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.SetSession("u-1", "tok-1")

	trips, err := client.ListTrips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Weekend in Paris", trips[0].Title)
	assert.Equal(t, model.PlanningCompleted, trips[0].PlanningStatus)
	assert.Equal(t, 2026, trips[0].CreatedAt.Year())
}

func TestCreateTripPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Tokyo, Japan", body["destination"])
		assert.Equal(t, float64(2), body["num_travelers"])
		assert.Equal(t, "luxury", body["budget_level"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"t-9","title":"Tokyo","destination":"Tokyo, Japan","planning_status":"pending"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	trip, err := client.CreateTrip(context.Background(), model.NewTrip{
		Title:        "Tokyo",
		Destination:  "Tokyo, Japan",
		StartDate:    "2026-10-01",
		EndDate:      "2026-10-10",
		NumTravelers: 2,
		BudgetLevel:  "luxury",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-9", trip.ID)
	assert.Equal(t, model.PlanningPending, trip.PlanningStatus)
}

func TestDelayItemSendsNewDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/trips/t-1/itinerary/items/i-3/delay", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("new_day"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	require.NoError(t, client.DelayItem(context.Background(), "t-1", "i-3", 2))
}

func TestAPIErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"no credits remaining"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateTrip(context.Background(), model.NewTrip{Destination: "Paris"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credits remaining")
	assert.Contains(t, err.Error(), "403")
}

func TestAPIErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteTrip(context.Background(), "t-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSearchCitiesEmptyQuerySkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cities, err := New(srv.URL).SearchCities(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cities)
	assert.False(t, called)
}

func TestBookFlight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trips/t-1/flights/f-1/book", r.URL.Path)
		w.Write([]byte(`{"booking_url":"https://book.example/f-1"}`))
	}))
	defer srv.Close()

	url, err := New(srv.URL).BookFlight(context.Background(), "t-1", "f-1")
	require.NoError(t, err)
	assert.Equal(t, "https://book.example/f-1", url)
}

func TestStartPlanning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/trips/t-1/plan", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"completed"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.SetSession("u-1", "tok-1")
	require.NoError(t, client.StartPlanning(context.Background(), "t-1"))
}

func TestStartPlanningErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"planning already in progress"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).StartPlanning(context.Background(), "t-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planning already in progress")
	assert.Contains(t, err.Error(), "409")
}

func TestGetPlanningStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/trips/t-1/plan/status", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"trip_id":"t-1","planning_status":"in_progress","has_plan":false}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.SetSession("u-1", "tok-1")

	status, err := client.GetPlanningStatus(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", status.TripID)
	assert.Equal(t, model.PlanningInProgress, status.PlanningStatus)
	assert.False(t, status.HasPlan)
}

func TestTripICalURL(t *testing.T) {
	client := New("http://api.example")
	client.SetSession("u-1", "tok")

	assert.Equal(t, "http://api.example/trips/t-1/ical?user_id=u-1", client.TripICalURL("t-1"))
}
