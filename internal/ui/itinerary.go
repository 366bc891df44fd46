package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"precisely/internal/model"
	"precisely/internal/util"
)

// ItineraryModel is the day-by-day view of a planned trip, with an optional
// map-points pane resolved through the geocoding pipeline.
type ItineraryModel struct {
	itinerary model.Itinerary
	trip      model.Trip
	icalURL   string

	dayIndex int
	cursor   int

	// map pane state, per day number
	points    map[int][]model.MapPoint
	resolving bool
	geoCancel context.CancelFunc
}

// NewItineraryModel creates the view. icalURL is the trip's calendar export
// link, shown so it can be opened or copied from the terminal.
func NewItineraryModel(itinerary model.Itinerary, trip model.Trip, icalURL string) *ItineraryModel {
	return &ItineraryModel{
		itinerary: itinerary,
		trip:      trip,
		icalURL:   icalURL,
		points:    make(map[int][]model.MapPoint),
	}
}

func (m *ItineraryModel) currentDay() (model.ItineraryDay, bool) {
	if m.dayIndex < 0 || m.dayIndex >= len(m.itinerary.Days) {
		return model.ItineraryDay{}, false
	}
	return m.itinerary.Days[m.dayIndex], true
}

// Day returns the selected 1-based day number.
func (m *ItineraryModel) Day() int {
	if day, ok := m.currentDay(); ok {
		return day.DayNumber
	}
	return 1
}

// ChangeDay moves the day selector. Any in-flight geocoding for the old day
// is cancelled; its partial results are discarded.
func (m *ItineraryModel) ChangeDay(delta int) {
	next := m.dayIndex + delta
	if next < 0 || next >= len(m.itinerary.Days) {
		return
	}
	m.CancelGeocoding()
	m.dayIndex = next
	m.cursor = 0
}

// MoveCursor moves the item selection within the day.
func (m *ItineraryModel) MoveCursor(delta int) {
	day, ok := m.currentDay()
	if !ok {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(day.Items) {
		m.cursor = len(day.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SelectedItem returns the item under the cursor.
func (m *ItineraryModel) SelectedItem() (model.ItineraryItem, bool) {
	day, ok := m.currentDay()
	if !ok || len(day.Items) == 0 || m.cursor >= len(day.Items) {
		return model.ItineraryItem{}, false
	}
	return day.Items[m.cursor], true
}

// StartGeocoding begins resolving the selected day's locations. It returns
// the context for the run, the day number, and the items to resolve.
func (m *ItineraryModel) StartGeocoding() (context.Context, int, []model.ItineraryItem) {
	m.CancelGeocoding()
	ctx, cancel := context.WithCancel(context.Background())
	m.geoCancel = cancel
	m.resolving = true
	day, _ := m.currentDay()
	return ctx, day.DayNumber, day.Items
}

// CancelGeocoding stops any in-flight resolution.
func (m *ItineraryModel) CancelGeocoding() {
	if m.geoCancel != nil {
		m.geoCancel()
		m.geoCancel = nil
	}
	m.resolving = false
}

// SetMapPoints installs a finished day's resolution.
func (m *ItineraryModel) SetMapPoints(day int, points []model.MapPoint) {
	m.points[day] = points
	m.resolving = false
}

func itemStatusIcon(status string) string {
	switch status {
	case model.ItemCompleted:
		return StageDoneStyle.Render("✓")
	case model.ItemDelayed:
		return StageSkippedStyle.Render("→")
	case model.ItemSkipped:
		return StageWaitingStyle.Render("−")
	default:
		return StageWaitingStyle.Render("·")
	}
}

// View renders the selected day and, when resolved, its map points.
func (m *ItineraryModel) View(width, height int) string {
	title := TitleStyle.Render(fmt.Sprintf("%s — itinerary", m.itinerary.Destination))

	if len(m.itinerary.Days) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No itinerary yet"))
	}

	var tabs []string
	for i, day := range m.itinerary.Days {
		label := fmt.Sprintf(" Day %d ", day.DayNumber)
		if i == m.dayIndex {
			tabs = append(tabs, SelectedRowStyle.Render(label))
		} else {
			tabs = append(tabs, HelpDescStyle.Render(label))
		}
	}

	day, _ := m.currentDay()
	var lines []string
	for i, item := range day.Items {
		if item.TravelInfo != nil && item.TravelInfo.DurationText != "" {
			lines = append(lines, HelpDescStyle.Render(fmt.Sprintf("      ↓ %s, %s",
				item.TravelInfo.Mode, item.TravelInfo.DurationText)))
		}
		line := fmt.Sprintf("%s %s  %-32s %-10s %s",
			itemStatusIcon(item.Status),
			item.StartTime,
			util.Truncate(item.Title, 32),
			util.FormatDuration(item.DurationMinutes),
			util.FormatCost(item.Cost, item.Currency))
		if i == m.cursor {
			line = SelectedRowStyle.Render(line)
		} else {
			line = NormalRowStyle.Render(line)
		}
		lines = append(lines, line)
		if i == m.cursor && item.Location != "" {
			lines = append(lines, HelpDescStyle.Render("      @ "+item.Location))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, EmptyStateStyle.Render("Free day"))
	}

	body := strings.Join(lines, "\n")

	var mapPane string
	switch {
	case m.resolving:
		mapPane = StatusBarStyle.Render("Resolving locations... (1 req/s — this takes a moment)")
	case m.points[day.DayNumber] != nil:
		var rows []string
		rows = append(rows, LabelStyle.Render("Map points"))
		for _, pt := range m.points[day.DayNumber] {
			rows = append(rows, fmt.Sprintf("  %-32s %9.5f, %10.5f",
				util.Truncate(pt.Title, 32), pt.Lat, pt.Lon))
		}
		mapPane = PanelStyle.Render(strings.Join(rows, "\n"))
	}

	hints := HelpDescStyle.Render("[/] days · c complete · D delay · m map · f flights · s stays · e chat · esc back")

	sections := []string{title, strings.Join(tabs, " "), "", body}
	if mapPane != "" {
		sections = append(sections, "", mapPane)
	}
	sections = append(sections, "", hints)
	if m.icalURL != "" {
		sections = append(sections, HelpDescStyle.Render("Calendar export: "+m.icalURL))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
