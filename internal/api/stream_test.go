package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDecoderChunkBoundaryInvariance(t *testing.T) {
	input := "data: {\"agent\":\"CitySelector\",\"status\":\"running\"}\r\n" +
		"data: {\"agent\":\"CitySelector\",\"status\":\"done\"}\n" +
		"data: {\"type\":\"complete\"}\n"

	want := []string{
		`data: {"agent":"CitySelector","status":"running"}`,
		`data: {"agent":"CitySelector","status":"done"}`,
		`data: {"type":"complete"}`,
	}

	// The decoded lines must be the same no matter where the transport
	// splits the byte stream.
	for size := 1; size <= len(input); size++ {
		dec := newLineDecoder()
		var got []string
		for i := 0; i < len(input); i += size {
			end := i + size
			if end > len(input) {
				end = len(input)
			}
			got = append(got, dec.consume([]byte(input[i:end]))...)
		}
		require.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestLineDecoderBuffersUnterminatedTail(t *testing.T) {
	dec := newLineDecoder()

	assert.Empty(t, dec.consume([]byte("data: {\"agent\":")))
	assert.Empty(t, dec.consume([]byte("\"FlightFinder\"}")))

	lines := dec.consume([]byte("\ndata: next\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, `data: {"agent":"FlightFinder"}`, lines[0])
	assert.Equal(t, "data: next", lines[1])
}

func TestDecodeEventLine(t *testing.T) {
	t.Run("progress without type field", func(t *testing.T) {
		event, ok := decodeEventLine(`data: {"agent":"ItineraryPlanner","status":"running","message":"Planning days"}`)
		require.True(t, ok)
		assert.Equal(t, EventProgress, event.Type)
		assert.Equal(t, "ItineraryPlanner", event.Agent)
		assert.Equal(t, "running", event.Status)
		assert.Equal(t, "Planning days", event.Message)
	})

	t.Run("complete", func(t *testing.T) {
		event, ok := decodeEventLine(`data: {"type":"complete","message":"Trip planned!"}`)
		require.True(t, ok)
		assert.Equal(t, EventComplete, event.Type)
		assert.Equal(t, "Trip planned!", event.Message)
	})

	t.Run("error with message", func(t *testing.T) {
		event, ok := decodeEventLine(`data: {"type":"error","message":"no cities matched"}`)
		require.True(t, ok)
		assert.Equal(t, EventError, event.Type)
		require.Error(t, event.Err)
		assert.Equal(t, "no cities matched", event.Err.Error())
	})

	t.Run("error without message", func(t *testing.T) {
		event, ok := decodeEventLine(`data: {"type":"error"}`)
		require.True(t, ok)
		assert.Equal(t, "Unknown error", event.Message)
	})

	t.Run("dropped lines", func(t *testing.T) {
		for _, line := range []string{
			"",
			": keepalive comment",
			"event: progress",
			"data: not json at all",
			`data: {"agent":`,
			`{"agent":"CitySelector"}`, // missing prefix
		} {
			_, ok := decodeEventLine(line)
			assert.False(t, ok, "line %q must be dropped", line)
		}
	})
}

func collectEvents(t *testing.T, s *PlanStream) []PlanEvent {
	t.Helper()
	var events []PlanEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-s.Events():
			if !ok {
				return events
			}
			events = append(events, event)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

func TestStreamPlanningDeliversEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trips/trip-1/plan/stream", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`data: {"agent":"DestinationResearcher","status":"running","message":"Researching"}`,
			`data: garbage`,
			`data: {"agent":"DestinationResearcher","status":"done"}`,
			`data: {"type":"complete","message":"Trip planned!"}`,
		} {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.SetSession("user-1", "tok")

	events := collectEvents(t, client.StreamPlanning("trip-1"))

	require.Len(t, events, 3, "malformed line is dropped silently")
	assert.Equal(t, EventProgress, events[0].Type)
	assert.Equal(t, "Researching", events[0].Message)
	assert.Equal(t, EventProgress, events[1].Type)
	assert.Equal(t, EventComplete, events[2].Type)
}

func TestStreamPlanningStopsAfterTerminalEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"error\",\"message\":\"boom\"}\n")
		fmt.Fprint(w, "data: {\"agent\":\"CitySelector\",\"status\":\"running\"}\n")
	}))
	defer srv.Close()

	events := collectEvents(t, New(srv.URL).StreamPlanning("trip-1"))

	require.Len(t, events, 1, "nothing is read past the terminal event")
	assert.Equal(t, EventError, events[0].Type)
}

func TestStreamPlanningNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	events := collectEvents(t, New(srv.URL).StreamPlanning("missing"))

	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
	require.Error(t, events[0].Err)
	assert.Contains(t, events[0].Err.Error(), "404")
}

func TestStreamPlanningNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	events := collectEvents(t, New(srv.URL).StreamPlanning("trip-1"))

	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
}

func TestStreamPlanningCleanEndWithoutComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"agent\":\"CitySelector\",\"status\":\"running\"}\n")
	}))
	defer srv.Close()

	events := collectEvents(t, New(srv.URL).StreamPlanning("trip-1"))

	// The channel closes without a synthetic terminal event; the consumer
	// decides what an early close means.
	require.Len(t, events, 1)
	assert.Equal(t, EventProgress, events[0].Type)
}

func TestPlanStreamCancelIsIdempotent(t *testing.T) {
	cancelled := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"agent\":\"CitySelector\",\"status\":\"running\"}\n")
		w.(http.Flusher).Flush()
		// Cancellation is cooperative: the read loop only notices the flag
		// once its pending read resolves, so send one more chunk after
		// Cancel. That chunk must be discarded, not delivered.
		<-cancelled
		fmt.Fprint(w, "data: {\"agent\":\"FlightFinder\",\"status\":\"running\"}\n")
		w.(http.Flusher).Flush()
	}))
	defer srv.Close()

	s := New(srv.URL).StreamPlanning("trip-1")

	select {
	case <-s.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no first event")
	}

	s.Cancel()
	s.Cancel()
	s.Cancel()
	close(cancelled)

	select {
	case _, ok := <-s.Events():
		assert.False(t, ok, "channel closes after cancel with no further events")
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close after cancel")
	}
}
