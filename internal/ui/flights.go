package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"precisely/internal/model"
	"precisely/internal/util"
)

// FlightsModel lists a trip's flight suggestions.
type FlightsModel struct {
	rows   []model.Flight
	cursor int
}

// NewFlightsModel creates the flights list.
func NewFlightsModel(rows []model.Flight) *FlightsModel {
	return &FlightsModel{rows: rows}
}

// MoveCursor moves the selection, clamped to the list.
func (m *FlightsModel) MoveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the flight under the cursor.
func (m *FlightsModel) Selected() (model.Flight, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return model.Flight{}, false
	}
	return m.rows[m.cursor], true
}

// View renders the flights list.
func (m *FlightsModel) View(width, height int) string {
	title := TitleStyle.Render("Flights")
	if len(m.rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No flights suggested"))
	}

	var lines []string
	for i, f := range m.rows {
		status := f.Status
		if f.Status == "booked" {
			status = StageDoneStyle.Render("booked")
		}
		line := fmt.Sprintf("%-9s %s %-6s  %s → %s  %s  %s  %s",
			f.FlightType, f.Airline, f.FlightNumber,
			f.FromAirport, f.ToAirport,
			util.FormatDuration(f.DurationMinutes),
			util.FormatCost(f.Price, f.Currency),
			status)
		if i == m.cursor {
			line = SelectedRowStyle.Render(line)
		} else {
			line = NormalRowStyle.Render(line)
		}
		lines = append(lines, line)
	}

	hints := HelpDescStyle.Render("B book · esc back")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(lines, "\n"), "", hints)
}
