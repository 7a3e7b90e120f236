package tenant

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// ResponseSink is the pending HTTP response of the request a payload
// arrived on. The acknowledgement stage marks the status; the body is
// either written empty right away or left pending so a reply can travel
// back on the same response. At most one body is written.
type ResponseSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	status  int
	written bool
}

// NewResponseSink wraps w.
func NewResponseSink(w http.ResponseWriter) *ResponseSink {
	return &ResponseSink{w: w, status: http.StatusOK}
}

// Status marks the status code used when the body is written.
func (s *ResponseSink) Status(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

// SendEmpty writes the marked status with an empty body.
func (s *ResponseSink) SendEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.written {
		return
	}
	s.written = true
	s.w.WriteHeader(s.status)
}

// JSON writes v as the response body. It fails if a body was already sent.
func (s *ResponseSink) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.written {
		return fmt.Errorf("response already sent")
	}
	s.written = true
	s.w.Header().Set("Content-Type", "application/json")
	s.w.WriteHeader(s.status)
	_, err = s.w.Write(data)
	return err
}

// Pending reports whether no body has been written yet.
func (s *ResponseSink) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.written
}

// Finish sends an empty body if nothing else was sent. The receive handler
// calls it once the conversation engine returns.
func (s *ResponseSink) Finish() {
	s.SendEmpty()
}
