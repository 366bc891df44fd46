package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precisely/internal/api"
)

func progressEvent(agent, status string) api.PlanEvent {
	return api.PlanEvent{Type: api.EventProgress, Agent: agent, Status: status}
}

func TestTrackerStartsAtZero(t *testing.T) {
	tr := NewTracker()

	assert.Equal(t, 0, tr.Percent())
	assert.False(t, tr.Finished())
	assert.False(t, tr.Failed())
	for _, state := range tr.StageStates() {
		assert.Equal(t, StageWaiting, state)
	}
}

func TestTrackerPercentPerStage(t *testing.T) {
	cases := []struct {
		agent      string
		runningPct int
		donePct    int
	}{
		{"DestinationResearcher", 0, 16},
		{"CitySelector", 16, 33},
		{"FlightFinder", 33, 50},
		{"AccommodationFinder", 50, 66},
		{"ItineraryPlanner", 66, 83},
		{"RouteOptimizer", 83, 95}, // 100 is reserved for complete
	}

	for _, tc := range cases {
		t.Run(tc.agent, func(t *testing.T) {
			tr := NewTracker()

			tr.Apply(progressEvent(tc.agent, "running"))
			assert.Equal(t, tc.runningPct, tr.Percent())

			tr.Apply(progressEvent(tc.agent, "done"))
			assert.Equal(t, tc.donePct, tr.Percent())
			assert.False(t, tr.Finished())
		})
	}
}

func TestTrackerUnknownAgentIgnoredForPercent(t *testing.T) {
	tr := NewTracker()

	tr.Apply(progressEvent("VisaChecker", "running"))

	assert.Equal(t, 0, tr.Percent())
	// The event still lands in the activity log.
	require.Len(t, tr.Log(), 1)
	assert.Equal(t, "VisaChecker", tr.Log()[0].Agent)
}

func TestTrackerSkippedStage(t *testing.T) {
	tr := NewTracker()

	tr.Apply(progressEvent("FlightFinder", "running"))
	tr.Apply(progressEvent("FlightFinder", "skipped"))

	states := tr.StageStates()
	assert.Equal(t, StageSkipped, states[2])
	assert.Equal(t, 50, tr.Percent())
}

func TestTrackerCompleteFinishesRunningStages(t *testing.T) {
	tr := NewTracker()

	tr.Apply(progressEvent("DestinationResearcher", "running"))
	tr.Apply(progressEvent("DestinationResearcher", "done"))
	tr.Apply(progressEvent("CitySelector", "running"))
	tr.Apply(api.PlanEvent{Type: api.EventComplete, Message: "Trip planned!"})

	assert.Equal(t, 100, tr.Percent())
	assert.True(t, tr.Finished())
	assert.False(t, tr.Failed())

	states := tr.StageStates()
	assert.Equal(t, StageDone, states[0])
	assert.Equal(t, StageDone, states[1], "running stage is closed out by complete")
}

func TestTrackerErrorEndsSession(t *testing.T) {
	tr := NewTracker()

	tr.Apply(progressEvent("DestinationResearcher", "running"))
	tr.Apply(api.PlanEvent{Type: api.EventError, Message: "upstream failure"})

	assert.True(t, tr.Finished())
	assert.True(t, tr.Failed())
	assert.Equal(t, 0, tr.Percent(), "error does not advance progress")
}

func TestTrackerIgnoresEventsAfterTerminal(t *testing.T) {
	tr := NewTracker()

	tr.Apply(api.PlanEvent{Type: api.EventComplete})
	tr.Apply(progressEvent("RouteOptimizer", "running"))

	assert.Equal(t, 100, tr.Percent())
	assert.Len(t, tr.Log(), 1, "post-terminal events are not logged")
	assert.Equal(t, StageWaiting, tr.StageStates()[5])
}

func TestTrackerFullSession(t *testing.T) {
	tr := NewTracker()

	var percents []int

	tr.Apply(progressEvent("DestinationResearcher", "running"))
	percents = append(percents, tr.Percent())

	tr.Apply(progressEvent("DestinationResearcher", "done"))
	percents = append(percents, tr.Percent())

	tr.Apply(progressEvent("CitySelector", "running"))
	percents = append(percents, tr.Percent())

	tr.Apply(api.PlanEvent{Type: api.EventComplete, Message: "Trip planned!"})
	percents = append(percents, tr.Percent())

	assert.Equal(t, []int{0, 16, 16, 100}, percents)
	assert.True(t, tr.Finished())
	require.Len(t, tr.Log(), 4)
	assert.Equal(t, "Trip planned!", tr.Log()[3].Message)
	assert.Equal(t, StageDone, tr.StageStates()[1])
}

func TestTrackerLogTimestamps(t *testing.T) {
	tr := NewTracker()
	fixed := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	tr.Apply(progressEvent("CitySelector", "running"))

	require.Len(t, tr.Log(), 1)
	assert.Equal(t, fixed, tr.Log()[0].At)
}

func TestStageStateString(t *testing.T) {
	assert.Equal(t, "waiting", StageWaiting.String())
	assert.Equal(t, "running", StageRunning.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "skipped", StageSkipped.String())
}
