// internal/store/memory.go
//
// In-memory registry of live match sessions.
//
// Characteristics:
//   - Sessions are wrapped in an Entry keyed by match ID (a UUID).
//   - The map is guarded by an RWMutex (concurrent lookups, exclusive writes).
//   - Each Entry carries its own mutex so actions on one match are serialized
//     without blocking other matches.
//   - State is lost when the process restarts; finished matches are kept in
//     internal/history and pruned from memory after a grace period.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/duosweeper/internal/session"
)

// ErrNotFound is returned for unknown match IDs.
var ErrNotFound = errors.New("match not found")

// Entry guards one session.
type Entry struct {
	mu sync.Mutex
	s  *session.Session
}

// Do runs fn with exclusive access to the session.
func (e *Entry) Do(fn func(s *session.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Store defines the registry interface for live sessions.
type Store interface {
	// Save registers s under its ID.
	Save(ctx context.Context, s *session.Session) (*Entry, error)

	// Get retrieves a session entry by ID.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Prune drops sessions that finished before the cutoff and returns how many went.
	Prune(ctx context.Context, before time.Time) int

	// Len reports how many sessions are live.
	Len() int
}

// NewID returns a fresh match ID.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like a match ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*Entry // keyed by Session.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Entry)}
}

func (m *memory) Save(ctx context.Context, s *session.Session) (*Entry, error) {
	if s.ID() == "" {
		return nil, errors.New("session has no id")
	}
	e := &Entry{s: s}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = e
	return e, nil
}

func (m *memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, before time.Time) int {
	m.mu.RLock()
	var stale []string
	for id, e := range m.sessions {
		_ = e.Do(func(s *session.Session) error {
			if s.Finished() && s.FinishedAt().Before(before) {
				stale = append(stale, id)
			}
			return nil
		})
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range stale {
		delete(m.sessions, id)
	}
	return len(stale)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
