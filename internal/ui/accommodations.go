package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"precisely/internal/model"
	"precisely/internal/util"
)

// AccommodationsModel lists a trip's accommodation suggestions.
type AccommodationsModel struct {
	rows   []model.Accommodation
	cursor int
}

// NewAccommodationsModel creates the accommodations list.
func NewAccommodationsModel(rows []model.Accommodation) *AccommodationsModel {
	return &AccommodationsModel{rows: rows}
}

// MoveCursor moves the selection, clamped to the list.
func (m *AccommodationsModel) MoveCursor(delta int) {
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

// Selected returns the accommodation under the cursor.
func (m *AccommodationsModel) Selected() (model.Accommodation, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return model.Accommodation{}, false
	}
	return m.rows[m.cursor], true
}

// View renders the accommodations list.
func (m *AccommodationsModel) View(width, height int) string {
	title := TitleStyle.Render("Accommodations")
	if len(m.rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No accommodations suggested"))
	}

	var lines []string
	for i, a := range m.rows {
		rating := "-"
		if a.Rating != nil {
			rating = fmt.Sprintf("%.1f", *a.Rating)
		}
		status := a.Status
		if a.Status == "booked" {
			status = StageDoneStyle.Render("booked")
		}
		line := fmt.Sprintf("%-28s %-10s %s → %s  %s/night  ★%s  %s",
			util.Truncate(a.Name, 28), a.Type,
			util.FormatDate(a.CheckInDate), util.FormatDate(a.CheckOutDate),
			util.FormatCost(a.PricePerNight, a.Currency),
			rating, status)
		if i == m.cursor {
			line = SelectedRowStyle.Render(line)
		} else {
			line = NormalRowStyle.Render(line)
		}
		lines = append(lines, line)
		if i == m.cursor {
			details := fmt.Sprintf("      %s · total %s", a.Address, util.FormatCost(a.TotalPrice, a.Currency))
			if len(a.Amenities) > 0 {
				details += " · " + strings.Join(a.Amenities, ", ")
			}
			lines = append(lines, HelpDescStyle.Render(details))
		}
	}

	hints := HelpDescStyle.Render("B book · esc back")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(lines, "\n"), "", hints)
}
