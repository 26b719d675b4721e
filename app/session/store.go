package session

import (
	"errors"
	"sync"
	"time"

	"dsu-attendance/app/models"
)

// DefaultTimeout is how long a session survives without activity.
const DefaultTimeout = 30 * time.Minute

var ErrNotFound = errors.New("session not found")

// Store keeps dashboard sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(id string) (models.Session, error)
	Set(s models.Session) error
	Clear(id string) error
	// IsExpired reports whether the session is missing or idle past the timeout.
	IsExpired(id string, now time.Time) bool
	// Touch records activity on a live session.
	Touch(id string, now time.Time) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	timeout time.Duration

	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStore(timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MemoryStore{
		timeout:  timeout,
		sessions: make(map[string]models.Session),
	}
}

func (m *MemoryStore) Get(id string) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Set(s models.Session) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Clear(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) IsExpired(id string, now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || !s.Authenticated {
		return true
	}
	return m.expired(s, now)
}

func (m *MemoryStore) expired(s models.Session, now time.Time) bool {
	return now.Sub(s.LastActivity) > m.timeout
}

func (m *MemoryStore) Touch(id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.LastActivity = now
	m.sessions[id] = s
	return nil
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
