// Package sessionstore holds one engine.Engine per running race in memory,
// keyed by a generated identifier, so a single process can drive more than
// one concurrent race. It is purely in-process bookkeeping: nothing here
// persists to disk, so discarding the store (or the process) discards every
// race it holds, per §5's "discarding the engine instance terminates the
// simulation."
package sessionstore

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/engine"
)

// ErrNotFound is returned when a session id has no matching race.
var ErrNotFound = errors.New("sessionstore: race session not found")

// Store holds one Engine per race session behind a single read-write lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*engine.Engine
}

// New returns an empty Store.
func New() *Store {
	return &Store{sessions: make(map[uuid.UUID]*engine.Engine)}
}

// Create registers a new race session and returns its generated id.
func (s *Store) Create(e *engine.Engine) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = e
	return id
}

// Get returns the engine for a session id, or ErrNotFound.
func (s *Store) Get(id uuid.UUID) (*engine.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Delete discards a race session. A no-op if the id is unknown.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of active race sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
