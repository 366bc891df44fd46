package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// renderHelp renders the full-screen key reference.
func (m Model) renderHelp() string {
	sections := []helpSection{
		{"Navigation", []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Back, m.keys.Help, m.keys.Quit,
		}},
		{"Trips", []key.Binding{
			m.keys.Add, m.keys.Delete, m.keys.Refresh, m.keys.SignOut,
		}},
		{"Itinerary", []key.Binding{
			m.keys.NextDay, m.keys.PrevDay, m.keys.Complete, m.keys.Delay,
			m.keys.Map, m.keys.Flights, m.keys.Accommodations, m.keys.Chat,
		}},
		{"Bookings & vibes", []key.Binding{
			m.keys.Book, m.keys.Upvote, m.keys.Downvote,
		}},
	}

	var blocks []string
	for _, section := range sections {
		var rows []string
		rows = append(rows, LabelStyle.Render(section.title))
		for _, b := range section.bindings {
			h := b.Help()
			rows = append(rows, HelpKeyStyle.Render(h.Key)+"  "+HelpDescStyle.Render(h.Desc))
		}
		blocks = append(blocks, strings.Join(rows, "\n"))
	}

	body := PanelStyle.Render(
		TitleStyle.Render("Keys") + "\n\n" +
			strings.Join(blocks, "\n\n") + "\n\n" +
			HelpDescStyle.Render("? or esc closes this"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
