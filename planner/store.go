package planner

import (
	"sync"
)

// Factory Builds a fresh session, typically by loading the known images and
// routes from the database.
type Factory func() (*Planner, error)

// Store Per-administrator planner sessions, created on first use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Planner
	factory  Factory
}

// NewStore Create a session store backed by the given factory.
func NewStore(factory Factory) *Store {
	return &Store{
		sessions: make(map[string]*Planner),
		factory:  factory,
	}
}

// Get Return the caller's session, creating it on demand.
func (s *Store) Get(userID string) (*Planner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok {
		return session, nil
	}
	session, err := s.factory()
	if err != nil {
		return nil, err
	}
	s.sessions[userID] = session
	return session, nil
}

// Drop Discard the caller's session so the next access starts fresh.
func (s *Store) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
