package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session holds one upload's cleaned table and summary. Nothing is
// persisted; a session lives until it is deleted or expires.
type Session struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Table      *dataset.Table   `json:"-"`
	Summary    analysis.Summary `json:"summary"`
	CreatedAt  time.Time        `json:"created_at"`
	AccessedAt time.Time        `json:"accessed_at"`
}

// Store is an in-memory session registry with idle expiry.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore returns a store whose sessions expire after ttl without access.
// ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers a new session for a cleaned table.
func (s *Store) Create(name string, t *dataset.Table, sum analysis.Summary) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Name:       name,
		Table:      t,
		Summary:    sum,
		CreatedAt:  now,
		AccessedAt: now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a live session and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.AccessedAt = s.now()
	return sess, nil
}

// Delete drops a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.AccessedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
