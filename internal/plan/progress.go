// Package plan tracks the backend's multi-agent planning pipeline as it
// streams progress events.
package plan

import (
	"time"

	"precisely/internal/api"
)

// Stages is the fixed pipeline order. Positions are 1-based; an unknown
// agent name maps to position 0 and contributes nothing to the percentage.
var Stages = []string{
	"DestinationResearcher",
	"CitySelector",
	"FlightFinder",
	"AccommodationFinder",
	"ItineraryPlanner",
	"RouteOptimizer",
}

// StageState is the lifecycle of one pipeline stage. Skipped is terminal and
// distinct from Done: the agent decided its work was unnecessary (e.g. no
// flight search for a trip without flights).
type StageState int

const (
	StageWaiting StageState = iota
	StageRunning
	StageDone
	StageSkipped
)

// String renders the state for display.
func (s StageState) String() string {
	switch s {
	case StageRunning:
		return "running"
	case StageDone:
		return "done"
	case StageSkipped:
		return "skipped"
	default:
		return "waiting"
	}
}

// LogEntry is one line of the append-only activity log.
type LogEntry struct {
	Agent   string
	Status  string
	Message string
	At      time.Time
}

// Tracker reduces planning stream events into per-stage states, an overall
// percentage and an activity log. It is driven from a single stream's
// events; it is not safe for concurrent use.
type Tracker struct {
	states   map[string]StageState
	percent  int
	finished bool
	failed   bool
	log      []LogEntry
	now      func() time.Time
}

// NewTracker creates a tracker with all stages waiting.
func NewTracker() *Tracker {
	states := make(map[string]StageState, len(Stages))
	for _, name := range Stages {
		states[name] = StageWaiting
	}
	return &Tracker{states: states, now: time.Now}
}

// stagePosition returns the 1-based pipeline position of an agent, or 0 when
// the agent is not one of the fixed stages.
func stagePosition(agent string) int {
	for i, name := range Stages {
		if name == agent {
			return i + 1
		}
	}
	return 0
}

// Apply folds one stream event into the tracker. Events received after the
// terminal complete event are ignored; the transport does not enforce this,
// so the tracker does.
func (t *Tracker) Apply(event api.PlanEvent) {
	if t.finished {
		return
	}

	t.log = append(t.log, LogEntry{
		Agent:   event.Agent,
		Status:  event.Status,
		Message: event.Message,
		At:      t.now(),
	})

	switch event.Type {
	case api.EventComplete:
		// 100 is reserved for the terminal event; progress events alone
		// never reach it.
		t.percent = 100
		t.finished = true
		for name, state := range t.states {
			if state == StageRunning {
				t.states[name] = StageDone
			}
		}
	case api.EventError:
		t.finished = true
		t.failed = true
	case api.EventProgress:
		k := stagePosition(event.Agent)
		switch event.Status {
		case "running":
			if k > 0 {
				t.states[event.Agent] = StageRunning
				t.percent = capPercent((k - 1) * 100 / len(Stages))
			}
		case "done":
			if k > 0 {
				t.states[event.Agent] = StageDone
				t.percent = capPercent(k * 100 / len(Stages))
			}
		case "skipped":
			if k > 0 {
				t.states[event.Agent] = StageSkipped
				t.percent = capPercent(k * 100 / len(Stages))
			}
		}
	}
}

// capPercent holds progress events at 95 so only complete reaches 100.
func capPercent(p int) int {
	if p > 95 {
		return 95
	}
	return p
}

// Percent returns the overall progress percentage.
func (t *Tracker) Percent() int {
	return t.percent
}

// Finished reports whether a terminal event has been applied.
func (t *Tracker) Finished() bool {
	return t.finished
}

// Failed reports whether the session ended with an error event.
func (t *Tracker) Failed() bool {
	return t.failed
}

// StageStates returns the state of each stage in pipeline order.
func (t *Tracker) StageStates() []StageState {
	out := make([]StageState, len(Stages))
	for i, name := range Stages {
		out[i] = t.states[name]
	}
	return out
}

// Log returns the activity log, oldest first. The log is append-only and is
// never pruned within a session.
func (t *Tracker) Log() []LogEntry {
	return t.log
}
