// Package geo resolves free-text itinerary locations to coordinates through
// the Nominatim place-search API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const nominatimBase = "https://nominatim.openstreetmap.org"

// Client wraps the Nominatim search API.
type Client struct {
	baseURL    string
	userAgent  string
	language   string
	httpClient *http.Client
}

// NewClient creates a geocoding client. Nominatim requires an identifying
// User-Agent; language sets the Accept-Language header.
func NewClient(userAgent, language string) *Client {
	if language == "" {
		language = "en"
	}
	return &Client{
		baseURL:    nominatimBase,
		userAgent:  userAgent,
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetBaseURL points the client at a different search endpoint. Used in tests
// and for self-hosted Nominatim instances.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// Coordinates is one resolved point.
type Coordinates struct {
	Lat float64
	Lon float64
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Search geocodes a free-text query. It returns ok=false when the service
// yields no result; err is reserved for transport and decoding failures.
func (c *Client) Search(ctx context.Context, query string) (Coordinates, bool, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.language)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Coordinates{}, false, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, false, fmt.Errorf("JSON decode error: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("bad longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Lat: lat, Lon: lon}, true, nil
}
