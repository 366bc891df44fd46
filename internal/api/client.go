package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"precisely/internal/model"
)

// Client wraps the trip-planner REST API.
type Client struct {
	baseURL    string
	token      string
	userID     string
	httpClient *http.Client
	// streamClient has no timeout: a planning stream stays open for
	// minutes and is ended by the server or by Cancel.
	streamClient *http.Client
}

// New creates a new API client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		streamClient: &http.Client{},
	}
}

// SetSession attaches the signed-in user's token and id to subsequent requests.
func (c *Client) SetSession(userID, token string) {
	c.userID = userID
	c.token = token
}

// UserID returns the id of the signed-in user, if any.
func (c *Client) UserID() string {
	return c.userID
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// Register creates an account and returns the session.
func (c *Client) Register(ctx context.Context, email, name, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "name": name, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs the user in and returns the session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type tripPayload struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Destination         string   `json:"destination"`
	OriginCity          string   `json:"origin_city"`
	DestinationType     string   `json:"destination_type"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	NumTravelers        int      `json:"num_travelers"`
	Interests           []string `json:"interests"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	BudgetLevel         string   `json:"budget_level"`
	PlanningStatus      string   `json:"planning_status"`
	CreatedAt           string   `json:"created_at"`
}

func (p tripPayload) toModel() model.Trip {
	t := model.Trip{
		ID:                  p.ID,
		Title:               p.Title,
		Destination:         p.Destination,
		OriginCity:          p.OriginCity,
		DestinationType:     p.DestinationType,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		NumTravelers:        p.NumTravelers,
		Interests:           p.Interests,
		DietaryRestrictions: p.DietaryRestrictions,
		BudgetLevel:         p.BudgetLevel,
		PlanningStatus:      p.PlanningStatus,
	}
	if ts, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	return t
}

// ListTrips retrieves all trips owned by the signed-in user.
func (c *Client) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var payload []tripPayload
	if err := c.doJSON(ctx, http.MethodGet, "/trips", c.userParams(), nil, &payload); err != nil {
		return nil, err
	}
	trips := make([]model.Trip, 0, len(payload))
	for _, p := range payload {
		trips = append(trips, p.toModel())
	}
	return trips, nil
}

// CreateTrip submits a new trip and returns it with its server-assigned id.
func (c *Client) CreateTrip(ctx context.Context, t model.NewTrip) (model.Trip, error) {
	body := map[string]interface{}{
		"title":                t.Title,
		"destination":          t.Destination,
		"start_date":           t.StartDate,
		"end_date":             t.EndDate,
		"num_travelers":        t.NumTravelers,
		"interests":            t.Interests,
		"dietary_restrictions": t.DietaryRestrictions,
		"budget_level":         t.BudgetLevel,
	}
	var payload tripPayload
	if err := c.doJSON(ctx, http.MethodPost, "/trips", c.userParams(), body, &payload); err != nil {
		return model.Trip{}, err
	}
	return payload.toModel(), nil
}

// GetTrip retrieves a single trip by id.
func (c *Client) GetTrip(ctx context.Context, tripID string) (model.Trip, error) {
	var payload tripPayload
	if err := c.doJSON(ctx, http.MethodGet, "/trips/"+tripID, c.userParams(), nil, &payload); err != nil {
		return model.Trip{}, err
	}
	return payload.toModel(), nil
}

// DeleteTrip removes a trip. Trips are never deleted except through here.
func (c *Client) DeleteTrip(ctx context.Context, tripID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/trips/"+tripID, c.userParams(), nil, nil)
}

// PlanningStatus reports the backend's view of a trip's planning run.
type PlanningStatus struct {
	TripID         string `json:"trip_id"`
	PlanningStatus string `json:"planning_status"`
	HasPlan        bool   `json:"has_plan"`
}

// GetPlanningStatus polls the planning status of a trip.
func (c *Client) GetPlanningStatus(ctx context.Context, tripID string) (PlanningStatus, error) {
	var out PlanningStatus
	err := c.doJSON(ctx, http.MethodGet, "/trips/"+tripID+"/plan/status", c.userParams(), nil, &out)
	return out, err
}

// StartPlanning runs the planning pipeline synchronously. The streaming
// endpoint is preferred; this is the fallback when the stream cannot be
// opened. The run can take minutes, so the request goes through the untimed
// client and is bounded by ctx alone.
func (c *Client) StartPlanning(ctx context.Context, tripID string) error {
	reqURL := fmt.Sprintf("%s/trips/%s/plan?%s", c.baseURL, tripID, c.userParams().Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("API error: status %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}
	return nil
}

// GetItinerary retrieves the day-by-day plan for a trip.
func (c *Client) GetItinerary(ctx context.Context, tripID string) (model.Itinerary, error) {
	var out model.Itinerary
	err := c.doJSON(ctx, http.MethodGet, "/trips/"+tripID+"/itinerary", c.userParams(), nil, &out)
	return out, err
}

// CompleteItem marks an itinerary item as completed.
func (c *Client) CompleteItem(ctx context.Context, tripID, itemID string) error {
	path := fmt.Sprintf("/trips/%s/itinerary/items/%s/complete", tripID, itemID)
	return c.doJSON(ctx, http.MethodPut, path, c.userParams(), nil, nil)
}

// DelayItem moves an itinerary item to another day.
func (c *Client) DelayItem(ctx context.Context, tripID, itemID string, newDay int) error {
	params := c.userParams()
	params.Set("new_day", fmt.Sprintf("%d", newDay))
	path := fmt.Sprintf("/trips/%s/itinerary/items/%s/delay", tripID, itemID)
	return c.doJSON(ctx, http.MethodPut, path, params, nil, nil)
}

// GetFlights retrieves flight suggestions for a trip.
func (c *Client) GetFlights(ctx context.Context, tripID string) ([]model.Flight, error) {
	var out []model.Flight
	err := c.doJSON(ctx, http.MethodGet, "/trips/"+tripID+"/flights", c.userParams(), nil, &out)
	return out, err
}

// BookFlight marks a flight as booked and returns its booking URL.
func (c *Client) BookFlight(ctx context.Context, tripID, flightID string) (string, error) {
	var out struct {
		BookingURL string `json:"booking_url"`
	}
	path := fmt.Sprintf("/trips/%s/flights/%s/book", tripID, flightID)
	if err := c.doJSON(ctx, http.MethodPost, path, c.userParams(), nil, &out); err != nil {
		return "", err
	}
	return out.BookingURL, nil
}

// GetAccommodations retrieves accommodation suggestions for a trip.
func (c *Client) GetAccommodations(ctx context.Context, tripID string) ([]model.Accommodation, error) {
	var out []model.Accommodation
	err := c.doJSON(ctx, http.MethodGet, "/trips/"+tripID+"/accommodations", c.userParams(), nil, &out)
	return out, err
}

// BookAccommodation marks an accommodation as booked and returns its booking URL.
func (c *Client) BookAccommodation(ctx context.Context, tripID, accID string) (string, error) {
	var out struct {
		BookingURL string `json:"booking_url"`
	}
	path := fmt.Sprintf("/trips/%s/accommodations/%s/book", tripID, accID)
	if err := c.doJSON(ctx, http.MethodPost, path, c.userParams(), nil, &out); err != nil {
		return "", err
	}
	return out.BookingURL, nil
}

// SearchCities queries the backend's city autocomplete.
func (c *Client) SearchCities(ctx context.Context, query string) ([]model.City, error) {
	if query == "" {
		return []model.City{}, nil
	}
	params := url.Values{}
	params.Set("q", query)
	var out []model.City
	err := c.doJSON(ctx, http.MethodGet, "/search/cities", params, nil, &out)
	return out, err
}

// GetCredits retrieves the user's remaining trip credits.
func (c *Client) GetCredits(ctx context.Context) (int, error) {
	var out struct {
		Credits int `json:"credits"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/users/"+c.userID+"/credits", c.userParams(), nil, &out)
	return out.Credits, err
}

// ChatResponse is the backend's reply to a trip-edit chat message.
type ChatResponse struct {
	Reply            string `json:"reply"`
	ItineraryUpdated bool   `json:"itinerary_updated"`
}

// SendChat sends a chat message that may edit the trip's itinerary.
func (c *Client) SendChat(ctx context.Context, tripID, message string) (ChatResponse, error) {
	var out ChatResponse
	body := map[string]string{"message": message}
	err := c.doJSON(ctx, http.MethodPost, "/trips/"+tripID+"/chat", c.userParams(), body, &out)
	return out, err
}

// VibeImages fetches mood-board image URLs for a destination.
func (c *Client) VibeImages(ctx context.Context, city, country string) ([]string, error) {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	var out []string
	err := c.doJSON(ctx, http.MethodGet, "/pinterest", params, nil, &out)
	return out, err
}

// TripICalURL returns the download URL for a trip's .ics export.
func (c *Client) TripICalURL(tripID string) string {
	return fmt.Sprintf("%s/trips/%s/ical?%s", c.baseURL, tripID, c.userParams().Encode())
}

func (c *Client) userParams() url.Values {
	params := url.Values{}
	if c.userID != "" {
		params.Set("user_id", c.userID)
	}
	return params
}

// doJSON performs one request/response JSON exchange. out may be nil when the
// response body is not needed.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("request encoding failed: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("API error: status %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSON decode error: %w", err)
	}
	return nil
}
