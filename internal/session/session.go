// Package session keeps the in-memory table of login sessions.
// Sessions are ephemeral and do not survive a process restart.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/segmentio/ksuid"
)

// DefaultTTL is how long a session stays valid after creation
const DefaultTTL = 24 * time.Hour

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is an immutable login record. It is replaced, never edited.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	StoreID   string    `json:"store_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the session table contract used by the authentication service
type Store interface {
	Create(userID, role, storeID string) Session
	Validate(token string) (Session, error)
	Destroy(token string) error
	Sweep() int
}

// Manager is the in-memory Store
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	clock    clockwork.Clock
}

// Option configures a Manager
type Option func(*Manager)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock injects the time source (tests use a fake clock)
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]Session),
		ttl:      DefaultTTL,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session with an unpredictable token expiring after the TTL
func (m *Manager) Create(userID, role, storeID string) Session {
	now := m.clock.Now()
	s := Session{
		Token:     ksuid.New().String(),
		UserID:    userID,
		Role:      role,
		StoreID:   storeID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Validate returns the session for token. An expired session is removed
// on access and reported as ErrSessionExpired; later lookups see ErrSessionNotFound.
func (m *Manager) Validate(token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if m.clock.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

func (m *Manager) Destroy(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, token)
	return nil
}

// Sweep removes every expired session and returns how many were dropped
func (m *Manager) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done. onSweep, when
// not nil, receives the number of sessions removed by each pass.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			removed := m.Sweep()
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}
