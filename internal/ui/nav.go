package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"precisely/internal/geo"
	"precisely/internal/model"
)

// handleKey routes key presses to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenLogin:
		return m.handleLoginKey(msg)
	case model.ScreenTrips:
		return m.handleTripsKey(msg)
	case model.ScreenTripForm:
		return m.handleTripFormKey(msg)
	case model.ScreenVibes:
		return m.handleVibesKey(msg)
	case model.ScreenPlanning:
		return m.handlePlanningKey(msg)
	case model.ScreenItinerary:
		return m.handleItineraryKey(msg)
	case model.ScreenFlights:
		return m.handleFlightsKey(msg)
	case model.ScreenAccommodations:
		return m.handleAccommodationsKey(msg)
	case model.ScreenChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) handleTripsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trips == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.trips.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.trips.MoveCursor(1)
	case key.Matches(msg, m.keys.Add):
		m.tripForm = NewTripFormModel()
		m.mode = model.ModeInsert
		m.screen = model.ScreenTripForm
		return m, m.tripForm.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, loadTripsCmd(m.api, m.store)
	case key.Matches(msg, m.keys.SignOut):
		return m, signOutCmd(m.api, m.store)
	case key.Matches(msg, m.keys.Delete):
		if trip, ok := m.trips.Selected(); ok {
			return m, deleteTripCmd(m.api, trip.ID)
		}
	case key.Matches(msg, m.keys.Select):
		trip, ok := m.trips.Selected()
		if !ok {
			return m, nil
		}
		m.currentTrip = trip
		switch trip.PlanningStatus {
		case model.PlanningCompleted:
			return m, loadItineraryCmd(m.api, trip.ID)
		default:
			// pending, failed and stale in_progress sessions all restart
			// the stream; the consumer must re-open to retry.
			m.planning = NewPlanningModel(trip, m.api.StreamPlanning(trip.ID))
			m.screen = model.ScreenPlanning
			return m, tea.Batch(m.planning.spinner.Tick, waitPlanEventCmd(m.planning.stream))
		}
	}
	return m, nil
}

func (m Model) handlePlanningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.planning == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.planning.stream.Cancel()
		m.screen = model.ScreenTrips
		return m, loadTripsCmd(m.api, m.store)
	case key.Matches(msg, m.keys.Itinerary):
		if m.planning.tracker.Finished() && !m.planning.tracker.Failed() {
			return m, loadItineraryCmd(m.api, m.currentTrip.ID)
		}
	}
	return m, nil
}

func (m Model) handleItineraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.itinerary == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.itinerary.CancelGeocoding()
		m.screen = model.ScreenTrips
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.itinerary.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.itinerary.MoveCursor(1)
	case key.Matches(msg, m.keys.NextDay):
		m.itinerary.ChangeDay(1)
	case key.Matches(msg, m.keys.PrevDay):
		m.itinerary.ChangeDay(-1)
	case key.Matches(msg, m.keys.Complete):
		if item, ok := m.itinerary.SelectedItem(); ok {
			return m, completeItemCmd(m.api, m.currentTrip.ID, item.ID)
		}
	case key.Matches(msg, m.keys.Delay):
		if item, ok := m.itinerary.SelectedItem(); ok {
			return m, delayItemCmd(m.api, m.currentTrip.ID, item.ID, m.itinerary.Day()+1)
		}
	case key.Matches(msg, m.keys.Map):
		resolver := geo.NewResolver(m.geo, m.geocache)
		ctx, day, items := m.itinerary.StartGeocoding()
		return m, resolveDayCmd(ctx, resolver, day, items, m.currentTrip.Destination)
	case key.Matches(msg, m.keys.Flights):
		return m, loadFlightsCmd(m.api, m.currentTrip.ID)
	case key.Matches(msg, m.keys.Accommodations):
		return m, loadAccommodationsCmd(m.api, m.currentTrip.ID)
	case key.Matches(msg, m.keys.Chat):
		m.chat = NewChatModel(m.currentTrip)
		m.mode = model.ModeInsert
		m.screen = model.ScreenChat
		return m, m.chat.Focus()
	}
	return m, nil
}

func (m Model) handleFlightsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.flights == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenItinerary
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.flights.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.flights.MoveCursor(1)
	case key.Matches(msg, m.keys.Book):
		if f, ok := m.flights.Selected(); ok {
			return m, bookFlightCmd(m.api, m.currentTrip.ID, f.ID)
		}
	}
	return m, nil
}

func (m Model) handleAccommodationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.accommodations == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenItinerary
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.accommodations.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.accommodations.MoveCursor(1)
	case key.Matches(msg, m.keys.Book):
		if a, ok := m.accommodations.Selected(); ok {
			return m, bookAccommodationCmd(m.api, m.currentTrip.ID, a.ID)
		}
	}
	return m, nil
}
