package realtime

import "sync"

// sendBuffer is how many undelivered events a single connection may queue
// before further publishes to it are dropped.
const sendBuffer = 16

// Session is one live connection belonging to one user. Events flow through a
// buffered outbound channel drained by a single writer, which gives each
// connection an ordered stream; a session that falls behind loses events
// rather than blocking the publisher.
type Session struct {
	userID string
	send   chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(userID string) *Session {
	return &Session{
		userID: userID,
		send:   make(chan Event, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (s *Session) UserID() string { return s.userID }

// Offer queues ev for delivery. Returns false when the event was dropped
// because the session is closed or its buffer is full.
func (s *Session) Offer(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- ev:
		return true
	default:
		return false
	}
}

// Close marks the session dead. Safe to call more than once; queued but
// undelivered events are abandoned.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed when the session has been closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Events is the ordered outbound stream drained by the connection's writer.
func (s *Session) Events() <-chan Event { return s.send }
