package model

import "time"

// Planning status values reported by the backend.
const (
	PlanningPending    = "pending"
	PlanningInProgress = "in_progress"
	PlanningCompleted  = "completed"
	PlanningFailed     = "failed"
)

// Itinerary item status values.
const (
	ItemPlanned   = "planned"
	ItemCompleted = "completed"
	ItemDelayed   = "delayed"
	ItemSkipped   = "skipped"
)

// Trip is one planned or in-planning trip.
type Trip struct {
	ID                  string
	Title               string
	Destination         string
	OriginCity          string
	DestinationType     string
	StartDate           string // YYYY-MM-DD
	EndDate             string // YYYY-MM-DD
	NumTravelers        int
	Interests           []string
	DietaryRestrictions []string
	BudgetLevel         string // budget, mid, luxury
	PlanningStatus      string
	CreatedAt           time.Time
}

// NewTrip is the payload for creating a trip.
type NewTrip struct {
	Title               string
	Destination         string
	StartDate           string
	EndDate             string
	NumTravelers        int
	Interests           []string
	DietaryRestrictions []string
	BudgetLevel         string
}

// TravelInfo describes the leg between one itinerary item and the next.
type TravelInfo struct {
	Mode         string `json:"mode"`
	DurationText string `json:"duration_text"`
	DistanceText string `json:"distance_text"`
}

// ItineraryItem is one activity within a day.
type ItineraryItem struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ItemType        string      `json:"item_type"` // activity, meal, transit
	Location        string      `json:"location"`
	StartTime       string      `json:"start_time"`
	DurationMinutes int         `json:"duration_minutes"`
	Cost            float64     `json:"cost"`
	Currency        string      `json:"currency"`
	Status          string      `json:"status"`
	DelayedToDay    int         `json:"delayed_to_day,omitempty"`
	BookingURL      string      `json:"booking_url,omitempty"`
	TravelInfo      *TravelInfo `json:"travel_info,omitempty"`
}

// ItineraryDay is one day of a trip's plan.
type ItineraryDay struct {
	DayNumber int             `json:"day_number"`
	Date      string          `json:"date"`
	Items     []ItineraryItem `json:"items"`
}

// Itinerary is a trip's full day-by-day plan.
type Itinerary struct {
	TripID      string         `json:"trip_id"`
	Destination string         `json:"destination"`
	Days        []ItineraryDay `json:"days"`
	TotalCost   float64        `json:"total_cost"`
	Currency    string         `json:"currency"`
}

// Flight is one suggested flight.
type Flight struct {
	ID              string  `json:"id"`
	FlightType      string  `json:"flight_type"` // outbound, return
	Airline         string  `json:"airline"`
	FlightNumber    string  `json:"flight_number"`
	FromAirport     string  `json:"from_airport"`
	ToAirport       string  `json:"to_airport"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"` // suggested, booked
	BookingURL      string  `json:"booking_url,omitempty"`
}

// Accommodation is one suggested place to stay.
type Accommodation struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"` // hotel, hostel, apartment
	Address       string   `json:"address"`
	CheckInDate   string   `json:"check_in_date"`
	CheckOutDate  string   `json:"check_out_date"`
	PricePerNight float64  `json:"price_per_night"`
	TotalPrice    float64  `json:"total_price"`
	Currency      string   `json:"currency"`
	Rating        *float64 `json:"rating"`
	Amenities     []string `json:"amenities"`
	Status        string   `json:"status"`
	BookingURL    string   `json:"booking_url,omitempty"`
}

// City is one destination autocomplete candidate.
type City struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	IATACode string `json:"iata_code"`
}

// MapPoint is one geocoded itinerary item.
type MapPoint struct {
	Title    string
	Location string
	Lat      float64
	Lon      float64
}

// ChatMessage is one entry in a trip's edit conversation.
type ChatMessage struct {
	ID      string
	Role    string // user, assistant
	Content string
	At      time.Time
}

// User is the signed-in account.
type User struct {
	ID      string
	Email   string
	Name    string
	Credits int
}
