package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// PlanEventType discriminates planning stream events.
type PlanEventType int

const (
	EventProgress PlanEventType = iota
	EventComplete
	EventError
)

// PlanEvent is one decoded event from the planning stream.
type PlanEvent struct {
	Type    PlanEventType
	Agent   string
	Status  string // running, done, skipped
	Message string
	Err     error // set only for EventError
}

// planEventPayload is the wire shape of one stream event. A missing type
// field means a progress event.
type planEventPayload struct {
	Type    string `json:"type"`
	Agent   string `json:"agent"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

const dataPrefix = "data: "

// PlanStream is a handle on one open planning stream. Events arrive on
// Events; the channel closes when the stream ends for any reason.
type PlanStream struct {
	events     chan PlanEvent
	cancelled  atomic.Bool
	cancelOnce sync.Once
}

// Events returns the stream's event channel.
func (s *PlanStream) Events() <-chan PlanEvent {
	return s.events
}

// Cancel requests that the read loop stop. Cancellation is cooperative: the
// pending read is allowed to resolve, so at most one more chunk may be read
// and discarded after Cancel returns. Safe to call more than once.
func (s *PlanStream) Cancel() {
	s.cancelOnce.Do(func() {
		s.cancelled.Store(true)
	})
}

// StreamPlanning opens the planning stream for a trip. Transport failures
// (network error, non-2xx status) surface as a single EventError followed by
// channel close; there is no automatic retry — callers restart the stream.
func (c *Client) StreamPlanning(tripID string) *PlanStream {
	s := &PlanStream{events: make(chan PlanEvent)}

	go func() {
		defer close(s.events)

		reqURL := fmt.Sprintf("%s/trips/%s/plan/stream?%s", c.baseURL, tripID, c.userParams().Encode())
		req, err := http.NewRequest(http.MethodGet, reqURL, nil)
		if err != nil {
			s.events <- PlanEvent{Type: EventError, Err: fmt.Errorf("request creation failed: %w", err)}
			return
		}
		req.Header.Set("Accept", "text/event-stream")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.streamClient.Do(req)
		if err != nil {
			s.events <- PlanEvent{Type: EventError, Err: fmt.Errorf("network error: %w", err)}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			s.events <- PlanEvent{Type: EventError, Err: fmt.Errorf("API error: status %d", resp.StatusCode)}
			return
		}

		dec := newLineDecoder()
		buf := make([]byte, 4096)
		for {
			n, readErr := resp.Body.Read(buf)
			if s.cancelled.Load() {
				return
			}
			if n > 0 {
				for _, line := range dec.consume(buf[:n]) {
					event, ok := decodeEventLine(line)
					if !ok {
						continue
					}
					s.events <- event
					if event.Type == EventComplete || event.Type == EventError {
						return
					}
				}
			}
			if readErr != nil {
				// io.EOF and transport errors both end the stream. A clean
				// end without a complete event is left to the consumer to
				// interpret.
				return
			}
		}
	}()

	return s
}

// lineDecoder splits an incremental byte stream into complete lines,
// carrying the trailing incomplete line across chunks. A line may span any
// number of chunk boundaries.
type lineDecoder struct {
	carry []byte
}

func newLineDecoder() *lineDecoder {
	return &lineDecoder{}
}

// consume appends one chunk and returns every complete line now available.
// An unterminated final line stays buffered for the next chunk.
func (d *lineDecoder) consume(chunk []byte) []string {
	d.carry = append(d.carry, chunk...)

	var lines []string
	for {
		i := -1
		for j, b := range d.carry {
			if b == '\n' {
				i = j
				break
			}
		}
		if i < 0 {
			return lines
		}
		line := strings.TrimSuffix(string(d.carry[:i]), "\r")
		d.carry = d.carry[i+1:]
		lines = append(lines, line)
	}
}

// decodeEventLine parses one stream line. Lines without the data prefix and
// lines whose payload is not valid JSON are dropped: one malformed event must
// not abort an otherwise healthy session.
func decodeEventLine(line string) (PlanEvent, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return PlanEvent{}, false
	}
	var payload planEventPayload
	if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &payload); err != nil {
		return PlanEvent{}, false
	}

	switch payload.Type {
	case "complete":
		return PlanEvent{Type: EventComplete, Agent: payload.Agent, Status: payload.Status, Message: payload.Message}, true
	case "error":
		msg := payload.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return PlanEvent{Type: EventError, Agent: payload.Agent, Status: payload.Status, Message: msg, Err: errors.New(msg)}, true
	default:
		return PlanEvent{Type: EventProgress, Agent: payload.Agent, Status: payload.Status, Message: payload.Message}, true
	}
}
