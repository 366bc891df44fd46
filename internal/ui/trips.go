package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"precisely/internal/model"
	"precisely/internal/util"
)

type tripColumn struct {
	label string
	width int
}

// TripsModel is the dashboard listing the user's trips.
type TripsModel struct {
	rows      []model.Trip
	cursor    int
	offset    int
	fromCache bool

	columns []tripColumn
}

// NewTripsModel creates the trips dashboard.
func NewTripsModel(rows []model.Trip, fromCache bool) *TripsModel {
	return &TripsModel{
		rows:      rows,
		fromCache: fromCache,
		columns: []tripColumn{
			{label: "title", width: 24},
			{label: "destination", width: 18},
			{label: "dates", width: 22},
			{label: "travelers", width: 10},
			{label: "budget", width: 8},
			{label: "status", width: 12},
		},
	}
}

// MoveCursor moves the selection, clamped to the list.
func (m *TripsModel) MoveCursor(delta int) {
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

// Selected returns the trip under the cursor.
func (m *TripsModel) Selected() (model.Trip, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return model.Trip{}, false
	}
	return m.rows[m.cursor], true
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case model.PlanningCompleted:
		return StageDoneStyle
	case model.PlanningInProgress:
		return StageRunningStyle
	case model.PlanningFailed:
		return ErrorStyle.Padding(0)
	default:
		return StageWaitingStyle
	}
}

// View renders the trips table.
func (m *TripsModel) View(width, height int) string {
	if len(m.rows) == 0 {
		hint := "No trips yet — press a to plan your first one"
		if m.fromCache {
			hint = "No cached trips"
		}
		return EmptyStateStyle.Render(hint)
	}

	var header strings.Builder
	for _, col := range m.columns {
		header.WriteString(TableHeaderStyle.Width(col.width).Render(col.label))
	}

	visible := height - 3
	if visible < 1 {
		visible = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}

	var lines []string
	lines = append(lines, header.String())
	end := m.offset + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		t := m.rows[i]
		cells := []string{
			util.Truncate(t.Title, m.columns[0].width-1),
			util.Truncate(t.Destination, m.columns[1].width-1),
			util.Truncate(util.FormatDateRange(t.StartDate, t.EndDate), m.columns[2].width-1),
			fmt.Sprintf("%d", t.NumTravelers),
			t.BudgetLevel,
			t.PlanningStatus,
		}
		var row strings.Builder
		for j, cell := range cells {
			style := NormalRowStyle
			if j == 5 && i != m.cursor {
				style = statusStyle(t.PlanningStatus)
			}
			if i == m.cursor {
				style = SelectedRowStyle
			}
			row.WriteString(style.Width(m.columns[j].width).Padding(0, 1).Render(cell))
		}
		lines = append(lines, row.String())
	}

	lines = append(lines, "")
	lines = append(lines, HelpDescStyle.Render("enter open · a new trip · d delete · r refresh · ctrl+o sign out"))
	return strings.Join(lines, "\n")
}
