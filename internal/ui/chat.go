package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"precisely/internal/model"
)

// ChatModel is the conversational itinerary editor for one trip.
type ChatModel struct {
	trip     model.Trip
	input    textinput.Model
	messages []model.ChatMessage
	waiting  bool
}

// NewChatModel creates the chat screen.
func NewChatModel(trip model.Trip) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. swap the museum for something outdoors on day 2"
	ti.CharLimit = 500
	ti.Width = 70

	return &ChatModel{
		trip:  trip,
		input: ti,
	}
}

// Focus puts the cursor in the message field.
func (c *ChatModel) Focus() tea.Cmd {
	return c.input.Focus()
}

// UpdateInputs forwards text input events.
func (c *ChatModel) UpdateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// AddReply appends the backend's answer to the transcript.
func (c *ChatModel) AddReply(reply string) {
	c.waiting = false
	c.messages = append(c.messages, model.ChatMessage{
		ID:      uuid.NewString(),
		Role:    "assistant",
		Content: reply,
		At:      time.Now(),
	})
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.chat
	if c == nil {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.chat = nil
		m.mode = model.ModeNav
		m.screen = model.ScreenItinerary
		return m, nil
	case "enter":
		text := strings.TrimSpace(c.input.Value())
		if text == "" || c.waiting {
			return m, nil
		}
		c.messages = append(c.messages, model.ChatMessage{
			ID:      uuid.NewString(),
			Role:    "user",
			Content: text,
			At:      time.Now(),
		})
		c.waiting = true
		c.input.Reset()
		return m, sendChatCmd(m.api, c.trip.ID, text)
	}

	return m, c.UpdateInputs(msg)
}

// View renders the transcript and input field.
func (c *ChatModel) View(width, height int) string {
	title := TitleStyle.Render(fmt.Sprintf("Edit %s via chat", c.trip.Destination))

	wrap := width - 6
	if wrap < 20 {
		wrap = 20
	}

	var lines []string
	for _, msg := range c.messages {
		label := SuccessStyle.Render("you")
		if msg.Role == "assistant" {
			label = LabelStyle.Render("planner")
		}
		body := lipgloss.NewStyle().Width(wrap).Render(msg.Content)
		lines = append(lines, fmt.Sprintf("%s %s  %s", msg.At.Format("15:04"), label, body))
	}
	if len(lines) == 0 {
		lines = append(lines, EmptyStateStyle.Render("Describe a change and the planner will rework the itinerary."))
	}

	// Show the tail that fits above the input.
	visible := height - 7
	if visible < 3 {
		visible = 3
	}
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}

	var status string
	if c.waiting {
		status = StatusBarStyle.Render("Planner is thinking...")
	}

	hints := HelpDescStyle.Render("enter send · esc back")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(lines, "\n"),
		"",
		status,
		renderFormField("Message", c.input, true),
		hints,
	)
}
