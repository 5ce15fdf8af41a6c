package session

import (
	"sync"

	"github.com/kosatka-dev/postmap/internal/config"
	"github.com/kosatka-dev/postmap/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager is the registry of live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      *config.Config
	geocoder Geocoder
	metrics  *metrics.Metrics
}

// NewManager creates an empty registry. Metrics may be nil.
func NewManager(cfg *config.Config, geocoder Geocoder, m *metrics.Metrics) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		geocoder: geocoder,
		metrics:  m,
	}
}

// Create registers a new session with a fresh identifier.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.cfg, m.geocoder)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(count))
	}
	log.Debug().Str("session", s.ID()).Int("active", count).Msg("Session created")

	return s
}

// Get looks a session up by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]

	return s, ok
}

// Close tears a session down and removes it from the registry.
// Closing an unknown id is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}

	s.Close()

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(count))
	}
	log.Debug().Str("session", id).Int("active", count).Msg("Session closed")
}
