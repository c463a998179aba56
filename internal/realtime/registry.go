package realtime

import "sync"

// Registry maps a user id to the set of that user's live sessions. A user may
// hold any number of simultaneous connections (tabs, devices); each is a
// distinct delivery target. Mutations happen only on connect and disconnect.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[*Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]map[*Session]struct{})}
}

// Subscribe registers s under its user id. The identity comes from the
// session itself, which is constructed from the authenticated handshake —
// there is no way for a client to subscribe as someone else.
func (r *Registry) Subscribe(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[s.userID]
	if !ok {
		set = make(map[*Session]struct{})
		r.sessions[s.userID] = set
	}
	set[s] = struct{}{}
}

// Unsubscribe removes s from whichever user it was registered under.
// No-op if the session was already removed.
func (r *Registry) Unsubscribe(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[s.userID]
	if !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(r.sessions, s.userID)
	}
}

// ConnectionsFor returns the user's live sessions; empty when there are none.
func (r *Registry) ConnectionsFor(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.sessions[userID]
	out := make([]*Session, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}
