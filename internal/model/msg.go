package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// SignedInMsg is sent when login or registration succeeds.
type SignedInMsg struct {
	User  User
	Token string
}

// SignedOutMsg is sent when the session has been cleared.
type SignedOutMsg struct{}

// TripsLoadedMsg is sent when the trip list is loaded.
type TripsLoadedMsg struct {
	Trips []Trip
	// FromCache is set when the backend was unreachable and the list came
	// from the local store.
	FromCache bool
}

// TripCreatedMsg is sent when a new trip has been created.
type TripCreatedMsg struct {
	Trip Trip
}

// TripDeletedMsg is sent when a trip has been deleted.
type TripDeletedMsg struct {
	ID string
}

// ItineraryLoadedMsg is sent when a trip's itinerary is loaded.
type ItineraryLoadedMsg struct {
	Itinerary Itinerary
}

// ItemUpdatedMsg is sent when an itinerary item mutation succeeds.
type ItemUpdatedMsg struct {
	ItemID string
	Status string
}

// FlightsLoadedMsg is sent when flights are loaded.
type FlightsLoadedMsg struct {
	Flights []Flight
}

// AccommodationsLoadedMsg is sent when accommodations are loaded.
type AccommodationsLoadedMsg struct {
	Accommodations []Accommodation
}

// BookedMsg is sent when a flight or accommodation booking succeeds.
type BookedMsg struct {
	Kind       string // flight, accommodation
	ID         string
	BookingURL string
}

// CreditsLoadedMsg is sent when the credit balance is loaded.
type CreditsLoadedMsg struct {
	Credits int
}

// CitySearchResultsMsg is sent when destination autocomplete completes.
type CitySearchResultsMsg struct {
	Seq    int
	Cities []City
}

// VibeImagesLoadedMsg is sent when mood-board images are loaded.
type VibeImagesLoadedMsg struct {
	URLs []string
}

// VibeImageRenderedMsg is sent when one mood-board image has been fetched
// and converted for terminal display.
type VibeImageRenderedMsg struct {
	URL   string
	ASCII string
}

// ChatReplyMsg is sent when the backend answers a chat message.
type ChatReplyMsg struct {
	Reply            string
	ItineraryUpdated bool
}

// MapPointsMsg is sent when the geocoding pipeline finishes a day.
type MapPointsMsg struct {
	Day    int
	Points []MapPoint
}

// Screen represents different app screens.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenTrips
	ScreenTripForm
	ScreenVibes
	ScreenPlanning
	ScreenItinerary
	ScreenFlights
	ScreenAccommodations
	ScreenChat
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
