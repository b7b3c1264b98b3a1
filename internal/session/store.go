// Package session keeps transient per-user dialog state for the ticket
// purchase flow.
package session

import (
	"sync"
	"time"
)

// Session tracks a user's progress through the date → session → category
// flow. A selected session always belongs to a selected date.
type Session struct {
	SelectedDate    string
	SelectedSession string
	LastActivity    time.Time
}

// Store maps user ids to sessions. Safe for concurrent use: the poll
// loop writes while admin-side readers query activity counts.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the user's session, creating an idle one on
// first access.
func (s *Store) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getLocked(userID)
}

func (s *Store) getLocked(userID int64) *Session {
	st := s.sessions[userID]
	if st == nil {
		st = &Session{LastActivity: time.Now()}
		s.sessions[userID] = st
	}
	return st
}

// SetDate selects a date and drops any previously selected session,
// since a session is only meaningful within its date.
func (s *Store) SetDate(userID int64, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getLocked(userID)
	st.SelectedDate = date
	st.SelectedSession = ""
}

// SetSession selects a time slot. Refused when no date is chosen, which
// keeps the date/session invariant intact under any call order.
func (s *Store) SetSession(userID int64, session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getLocked(userID)
	if st.SelectedDate == "" {
		return false
	}
	st.SelectedSession = session
	return true
}

// Clear resets the user's dialog back to idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getLocked(userID)
	st.SelectedDate = ""
	st.SelectedSession = ""
}

// Touch records user activity for liveness metrics.
func (s *Store) Touch(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getLocked(userID).LastActivity = time.Now()
}

// ActiveWithin counts users active within the window. Consumed by the
// admin dashboard's online metric.
func (s *Store) ActiveWithin(window time.Duration) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().Add(-window)
	n := 0
	for _, st := range s.sessions {
		if st.LastActivity.After(cutoff) {
			n++
		}
	}
	return n
}

// Len returns the number of known sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
