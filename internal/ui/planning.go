package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"precisely/internal/api"
	"precisely/internal/model"
	"precisely/internal/plan"
	"precisely/internal/util"
)

// PlanningModel shows one live planning session: the agent pipeline, the
// overall progress bar and the activity log.
type PlanningModel struct {
	trip    model.Trip
	stream  *api.PlanStream
	tracker *plan.Tracker

	spinner      spinner.Model
	bar          progress.Model
	streamClosed bool
	// polling is set when the stream could not be opened and the session
	// runs on the synchronous endpoint plus status polling.
	polling bool
}

// NewPlanningModel creates the screen and takes ownership of the stream.
func NewPlanningModel(trip model.Trip, stream *api.PlanStream) *PlanningModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	bar := progress.New(progress.WithGradient("#7FB4CA", "#a6e3a1"))

	return &PlanningModel{
		trip:    trip,
		stream:  stream,
		tracker: plan.NewTracker(),
		spinner: sp,
		bar:     bar,
	}
}

// Apply folds one stream event into the tracker.
func (p *PlanningModel) Apply(event api.PlanEvent) {
	p.tracker.Apply(event)
}

// UpdateSpinner advances the spinner animation.
func (p *PlanningModel) UpdateSpinner(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return cmd
}

func stageIcon(state plan.StageState) string {
	switch state {
	case plan.StageDone:
		return StageDoneStyle.Render("✓")
	case plan.StageRunning:
		return StageRunningStyle.Render("→")
	case plan.StageSkipped:
		return StageSkippedStyle.Render("−")
	default:
		return StageWaitingStyle.Render("○")
	}
}

// View renders the session.
func (p *PlanningModel) View(width, height int) string {
	title := TitleStyle.Render(fmt.Sprintf("Planning %s", p.trip.Destination))

	barWidth := width - 12
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	p.bar.Width = barWidth
	percent := p.tracker.Percent()
	barLine := fmt.Sprintf("%s %3d%%", p.bar.ViewAs(float64(percent)/100), percent)

	var stages []string
	states := p.tracker.StageStates()
	for i, name := range plan.Stages {
		line := fmt.Sprintf(" %s %-22s %s", stageIcon(states[i]), name, StageWaitingStyle.Render(states[i].String()))
		stages = append(stages, line)
	}

	var status string
	switch {
	case p.tracker.Failed():
		status = ErrorStyle.Render("Planning failed — esc to go back and retry")
	case p.tracker.Finished():
		status = SuccessStyle.Render("Planning complete! Press i to open the itinerary")
	case p.polling:
		status = p.spinner.View() + StatusBarStyle.Render("Stream unavailable — polling planning status")
	case p.streamClosed:
		status = WarnStyle.Render("Stream ended unexpectedly — esc to go back and retry")
	default:
		status = p.spinner.View() + StatusBarStyle.Render("Agents at work — esc cancels")
	}

	// Activity log tail: the log itself is append-only and complete; the
	// view shows what fits.
	log := p.tracker.Log()
	tail := height - len(plan.Stages) - 8
	if tail < 3 {
		tail = 3
	}
	start := len(log) - tail
	if start < 0 {
		start = 0
	}
	var logLines []string
	for _, entry := range log[start:] {
		line := fmt.Sprintf("%s  %-22s %-8s %s",
			entry.At.Format("15:04:05"), entry.Agent, entry.Status,
			util.Truncate(entry.Message, width-44))
		logLines = append(logLines, HelpDescStyle.Render(line))
	}
	if len(logLines) == 0 {
		logLines = append(logLines, EmptyStateStyle.Render("Waiting for the first event..."))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		" "+barLine,
		"",
		strings.Join(stages, "\n"),
		"",
		status,
		"",
		strings.Join(logLines, "\n"),
	)
}
