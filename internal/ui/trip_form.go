package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"precisely/internal/api"
	"precisely/internal/cities"
	"precisely/internal/model"
)

const (
	tripFieldTitle = iota
	tripFieldDestination
	tripFieldStartDate
	tripFieldEndDate
	tripFieldTravelers
	tripFieldInterests
	tripFieldDietary
	tripFieldBudget
	tripFieldCount
)

// TripFormModel is the new-trip form with destination autocomplete.
type TripFormModel struct {
	inputs  []textinput.Model
	focused int
	error   string

	// autocomplete state
	searchSeq     int
	searching     bool
	showDropdown  bool
	searchResults []model.City
	dropdownIndex int
}

// NewTripFormModel creates an empty trip form.
func NewTripFormModel() *TripFormModel {
	labels := []string{
		"Trip to Japan", "Tokyo", "2026-09-12", "2026-09-20", "2",
		"food, culture, nature", "vegetarian", "budget / mid / luxury",
	}
	inputs := make([]textinput.Model, tripFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 160
		inputs[i] = in
	}
	inputs[tripFieldTravelers].SetValue("1")
	inputs[tripFieldBudget].SetValue("mid")
	return &TripFormModel{inputs: inputs}
}

// Focus focuses the first field.
func (m *TripFormModel) Focus() tea.Cmd {
	return m.focusField(tripFieldTitle)
}

func (m *TripFormModel) focusField(i int) tea.Cmd {
	m.focused = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return textinput.Blink
}

// UpdateInputs forwards non-key messages (cursor blinks) to the inputs.
func (m *TripFormModel) UpdateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// SetSearchResults installs autocomplete results if they are not stale.
func (m *TripFormModel) SetSearchResults(seq int, results []model.City) {
	if seq != m.searchSeq {
		return
	}
	m.searching = false
	m.searchResults = results
	m.showDropdown = len(results) > 0 && m.focused == tripFieldDestination
	m.dropdownIndex = 0
}

// RunSearch performs the debounced destination search. The backend's city
// search is tried first; the static offline table answers when it fails.
func (m *TripFormModel) RunSearch(seq int, client *api.Client) tea.Cmd {
	if seq != m.searchSeq {
		return nil // superseded while the debounce timer ran
	}
	query := strings.TrimSpace(m.inputs[tripFieldDestination].Value())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		results, err := client.SearchCities(ctx, query)
		if err != nil || len(results) == 0 {
			results = cities.Search(query, 8)
		}
		return model.CitySearchResultsMsg{Seq: seq, Cities: results}
	}
}

func (m Model) handleTripFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.tripForm
	if f == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		if f.showDropdown {
			f.showDropdown = false
			return m, nil
		}
		m.tripForm = nil
		m.mode = model.ModeNav
		m.screen = model.ScreenTrips
		return m, nil
	case key.Matches(msg, m.formKeys.Save):
		return m.submitTripForm()
	case key.Matches(msg, m.formKeys.NextField):
		return m, f.focusField((f.focused + 1) % tripFieldCount)
	case key.Matches(msg, m.formKeys.PrevField):
		return m, f.focusField((f.focused + tripFieldCount - 1) % tripFieldCount)
	}

	switch msg.String() {
	case "enter":
		if f.showDropdown && f.focused == tripFieldDestination {
			f.selectCity(f.searchResults[f.dropdownIndex])
			return m, nil
		}
		if f.focused == tripFieldCount-1 {
			return m.submitTripForm()
		}
		return m, f.focusField((f.focused + 1) % tripFieldCount)
	case "down":
		if f.showDropdown && f.dropdownIndex < len(f.searchResults)-1 {
			f.dropdownIndex++
			return m, nil
		}
	case "up":
		if f.showDropdown && f.dropdownIndex > 0 {
			f.dropdownIndex--
			return m, nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	cmds := []tea.Cmd{cmd}

	// Debounced destination autocomplete.
	if f.focused == tripFieldDestination {
		query := strings.TrimSpace(f.inputs[tripFieldDestination].Value())
		if len(query) >= 2 {
			f.searchSeq++
			seq := f.searchSeq
			f.searching = true
			f.showDropdown = false
			cmds = append(cmds, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
				return debounceTickMsg{seq: seq}
			}))
		} else {
			f.showDropdown = false
			f.searchResults = nil
			f.searching = false
		}
	}

	return m, tea.Batch(cmds...)
}

func (f *TripFormModel) selectCity(city model.City) {
	name := city.Name
	if city.Country != "" {
		name = city.Name + ", " + city.Country
	}
	f.inputs[tripFieldDestination].SetValue(name)
	f.inputs[tripFieldDestination].CursorEnd()
	f.showDropdown = false
	f.searchResults = nil
}

// submitTripForm validates the form and moves on to the vibe board; the trip
// is created when the board is confirmed.
func (m Model) submitTripForm() (tea.Model, tea.Cmd) {
	f := m.tripForm
	draft, err := f.draft()
	if err != nil {
		f.error = err.Error()
		return m, nil
	}

	m.vibes = NewVibesModel(draft)
	m.mode = model.ModeNav
	m.screen = model.ScreenVibes
	city, country := splitDestination(draft.Destination)
	return m, loadVibeImagesCmd(m.api, city, country)
}

// draft builds the NewTrip from the form fields.
func (f *TripFormModel) draft() (model.NewTrip, error) {
	title := strings.TrimSpace(f.inputs[tripFieldTitle].Value())
	destination := strings.TrimSpace(f.inputs[tripFieldDestination].Value())
	start := strings.TrimSpace(f.inputs[tripFieldStartDate].Value())
	end := strings.TrimSpace(f.inputs[tripFieldEndDate].Value())

	if destination == "" {
		return model.NewTrip{}, fmt.Errorf("destination is required")
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return model.NewTrip{}, fmt.Errorf("start date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return model.NewTrip{}, fmt.Errorf("end date must be YYYY-MM-DD")
	}
	if end < start {
		return model.NewTrip{}, fmt.Errorf("end date is before start date")
	}
	if title == "" {
		title = "Trip to " + destination
	}

	travelers, err := strconv.Atoi(strings.TrimSpace(f.inputs[tripFieldTravelers].Value()))
	if err != nil || travelers < 1 {
		travelers = 1
	}

	budget := strings.ToLower(strings.TrimSpace(f.inputs[tripFieldBudget].Value()))
	switch budget {
	case "budget", "mid", "luxury":
	default:
		budget = "mid"
	}

	return model.NewTrip{
		Title:               title,
		Destination:         destination,
		StartDate:           start,
		EndDate:             end,
		NumTravelers:        travelers,
		Interests:           splitCSV(f.inputs[tripFieldInterests].Value()),
		DietaryRestrictions: splitCSV(f.inputs[tripFieldDietary].Value()),
		BudgetLevel:         budget,
	}, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitDestination separates "City, Country" input; a bare name is treated
// as the city.
func splitDestination(destination string) (city, country string) {
	parts := strings.SplitN(destination, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	return city, country
}

// View renders the trip form.
func (f *TripFormModel) View(width, height int) string {
	labels := []string{
		"Title", "Destination *", "Start date (YYYY-MM-DD) *", "End date (YYYY-MM-DD) *",
		"Travelers", "Interests (comma separated)", "Dietary restrictions", "Budget level",
	}

	var fields []string
	for i, label := range labels {
		field := renderFormField(label, f.inputs[i], f.focused == i)
		if i == tripFieldDestination {
			if f.showDropdown && len(f.searchResults) > 0 {
				field = lipgloss.JoinVertical(lipgloss.Left, field, f.renderDropdown())
			} else if f.searching && f.focused == tripFieldDestination {
				field = lipgloss.JoinVertical(lipgloss.Left, field, HelpDescStyle.Render("Searching..."))
			}
		}
		fields = append(fields, field)
	}

	if f.error != "" {
		fields = append(fields, ErrorStyle.Render(f.error))
	}
	fields = append(fields, HelpDescStyle.Render("tab next · ctrl+s continue to vibe board · esc cancel"))

	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("New trip"),
		"",
		strings.Join(fields, "\n\n"),
	))
}

func (f *TripFormModel) renderDropdown() string {
	var rows []string
	for i, city := range f.searchResults {
		label := city.Name
		if city.Country != "" {
			label += ", " + city.Country
		}
		if city.IATACode != "" {
			label += " (" + city.IATACode + ")"
		}
		if i == f.dropdownIndex {
			rows = append(rows, SelectedRowStyle.Render(" "+label+" "))
		} else {
			rows = append(rows, HelpDescStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(rows, "\n")
}
