package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"precisely/internal/model"
)

// VibesModel is the mood board: destination imagery the user votes on to
// steer itinerary generation before the trip is created.
type VibesModel struct {
	draft    model.NewTrip
	urls     []string
	rendered map[string]string // url -> ASCII art
	votes    map[string]bool   // url -> upvote
	index    int
	loading  bool
}

// NewVibesModel creates the board for a trip draft.
func NewVibesModel(draft model.NewTrip) *VibesModel {
	return &VibesModel{
		draft:    draft,
		rendered: make(map[string]string),
		votes:    make(map[string]bool),
		loading:  true,
	}
}

// SetImages installs the board's image URLs and starts rendering the first
// few; the rest render as the user pages through them.
func (v *VibesModel) SetImages(urls []string) tea.Cmd {
	v.urls = urls
	v.loading = false
	var cmds []tea.Cmd
	for i, url := range urls {
		if i >= 3 {
			break
		}
		cmds = append(cmds, renderVibeImageCmd(url, 60, 24))
	}
	return tea.Batch(cmds...)
}

// SetRendered stores one image's terminal rendering.
func (v *VibesModel) SetRendered(url, ascii string) {
	v.rendered[url] = ascii
}

func (v *VibesModel) current() (string, bool) {
	if v.index < 0 || v.index >= len(v.urls) {
		return "", false
	}
	return v.urls[v.index], true
}

// interests folds the votes into the draft's interests. Upvoted image URLs
// are passed through; the backend's vibe matcher consumes them.
func (v *VibesModel) interests() []string {
	out := append([]string(nil), v.draft.Interests...)
	for url, up := range v.votes {
		if up {
			out = append(out, "vibe:"+url)
		}
	}
	return out
}

func (m Model) handleVibesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.vibes
	if v == nil {
		return m, nil
	}

	switch msg.String() {
	case "esc", "b":
		m.vibes = nil
		m.mode = model.ModeInsert
		m.screen = model.ScreenTripForm
		return m, nil
	case "l", "right":
		if v.index < len(v.urls)-1 {
			v.index++
			if url, ok := v.current(); ok {
				if _, done := v.rendered[url]; !done {
					return m, renderVibeImageCmd(url, 60, 24)
				}
			}
		}
		return m, nil
	case "h", "left":
		if v.index > 0 {
			v.index--
		}
		return m, nil
	case "+", "u":
		if url, ok := v.current(); ok {
			v.votes[url] = true
		}
		return m, nil
	case "-", "x":
		if url, ok := v.current(); ok {
			v.votes[url] = false
		}
		return m, nil
	case "enter", "ctrl+s":
		draft := v.draft
		draft.Interests = v.interests()
		return m, createTripCmd(m.api, draft)
	}
	return m, nil
}

// View renders the board.
func (v *VibesModel) View(width, height int) string {
	title := TitleStyle.Render(fmt.Sprintf("Vibe board — %s", v.draft.Destination))

	if v.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, EmptyStateStyle.Render("Gathering imagery..."))
	}
	if len(v.urls) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No imagery available — enter to continue"))
	}

	url, _ := v.current()
	image, ok := v.rendered[url]
	if !ok {
		image = EmptyStateStyle.Render("Rendering...")
	}

	vote := HelpDescStyle.Render("unvoted")
	if up, voted := v.votes[url]; voted {
		if up {
			vote = SuccessStyle.Render("▲ upvoted")
		} else {
			vote = ErrorStyle.Render("▼ downvoted")
		}
	}

	var upCount int
	for _, up := range v.votes {
		if up {
			upCount++
		}
	}

	status := StatusBarStyle.Render(fmt.Sprintf("%d/%d · %s · %d upvoted", v.index+1, len(v.urls), vote, upCount))
	hints := HelpDescStyle.Render("h/l browse · + upvote · - downvote · enter create trip · esc back")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", image, "", status, hints)
}
