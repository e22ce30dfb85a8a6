package gesture

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NoGesture is shown before any gesture has been announced.
const NoGesture = "No Gesture"

// Session tracks the last announced gesture for one run of frame processing.
type Session struct {
	id      string
	started time.Time

	mu   sync.Mutex
	last Label
}

// NewSession creates a session with nothing announced yet.
func NewSession() *Session {
	return &Session{
		id:      uuid.New().String(),
		started: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.started
}

// Observe feeds one frame's label into the session. It returns the label to
// display and whether it is newly announced. Callers should trigger speech
// only when isNew is true.
//
// Unknown never changes state; it echoes the last announced label, or
// NoGesture before the first announcement.
func (s *Session) Observe(label Label) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == Unknown || label == "" {
		return s.display(), false
	}
	if label == s.last {
		return string(label), false
	}

	s.last = label
	return string(label), true
}

// Last returns the last announced label, or "" when none.
func (s *Session) Last() Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Display returns the last announced label or NoGesture.
func (s *Session) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display()
}

// Reset forgets the last announced gesture.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = ""
}

func (s *Session) display() string {
	if s.last == "" {
		return NoGesture
	}
	return string(s.last)
}
