package ui

import (
	"sync"
	"time"

	"gograph/app"
	"gograph/domain/core"
)

type sessionEntry struct {
	session  *app.Session
	lastSeen time.Time
}

// SessionStore keeps live sessions in memory, keyed by session id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	newFn    func() *app.Session
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions are built by newFn.
func NewSessionStore(newFn func() *app.Session) *SessionStore {
	return &SessionStore{
		sessions: make(map[core.SessionID]*sessionEntry),
		newFn:    newFn,
		now:      time.Now,
	}
}

// Create starts and registers a new session.
func (s *SessionStore) Create() *app.Session {
	sess := s.newFn()
	s.mu.Lock()
	s.sessions[sess.ID] = &sessionEntry{session: sess, lastSeen: s.now()}
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it as used.
func (s *SessionStore) Get(id core.SessionID) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.session, true
}

// Delete drops a session.
func (s *SessionStore) Delete(id core.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were removed.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
