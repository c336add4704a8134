// Package sse writes text/event-stream responses.
package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("sse: writer closed")

// Event is one message on the stream. Data is JSON encoded; a string is
// sent as is. Empty ID and Name are omitted.
type Event struct {
	ID   string
	Name string
	Data any
}

// Writer serializes events onto one response. It is safe for concurrent use,
// which the event fan-out relies on.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	mu      sync.Mutex
	started bool
	closed  bool
}

// NewWriter wraps w. Nothing is written until Start.
func NewWriter(w http.ResponseWriter) *Writer {
	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// Start sends the stream headers. It fails when w cannot flush, since
// buffered events would never reach the browser.
func (s *Writer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.flusher == nil {
		return errors.New("sse: response does not support flushing")
	}

	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.flusher.Flush()

	s.started = true
	return nil
}

// Send writes ev and flushes.
func (s *Writer) Send(ev Event) error {
	var payload []byte
	switch d := ev.Data.(type) {
	case string:
		payload = []byte(d)
	default:
		var err error
		if payload, err = json.Marshal(d); err != nil {
			return fmt.Errorf("sse: marshal %s: %w", ev.Name, err)
		}
	}

	var buf bytes.Buffer
	if ev.ID != "" {
		fmt.Fprintf(&buf, "id: %s\n", oneLine(ev.ID))
	}
	if ev.Name != "" {
		fmt.Fprintf(&buf, "event: %s\n", oneLine(ev.Name))
	}
	for _, line := range strings.Split(string(payload), "\n") {
		fmt.Fprintf(&buf, "data: %s\n", line)
	}
	buf.WriteByte('\n')
	return s.write(buf.Bytes())
}

// WriteEvent sends a named event with JSON data.
func (s *Writer) WriteEvent(name string, data any) error {
	return s.Send(Event{Name: name, Data: data})
}

// WriteRetry sets the browser's reconnect delay in milliseconds.
func (s *Writer) WriteRetry(ms int) error {
	return s.write([]byte(fmt.Sprintf("retry: %d\n\n", ms)))
}

// WriteComment sends a comment line, which clients ignore.
func (s *Writer) WriteComment(comment string) error {
	return s.write([]byte(": " + oneLine(comment) + "\n\n"))
}

func (s *Writer) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := s.w.Write(p); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// Close makes every later write fail with ErrClosed.
func (s *Writer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Writer) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
