package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/telemetry"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// idLength keeps generated IDs short enough to type
const idLength = 8

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*Session
	tracer   trace.Tracer
	mu       sync.RWMutex
}

// NewManager creates a session manager tracing through the global provider
func NewManager() *Manager {
	return NewManagerWithTracer(telemetry.Tracer("session"))
}

// NewManagerWithTracer creates a session manager with an explicit tracer
func NewManagerWithTracer(tracer trace.Tracer) *Manager {
	if tracer == nil {
		tracer = telemetry.NoopTracer()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		tracer:   tracer,
	}
}

// Create starts a session on level with the given audio backend. An empty id
// is replaced with a generated one.
func (m *Manager) Create(id string, level *engine.LevelConfig, audio engine.AudioBackend) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	}

	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(level, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	session := newSession(id, level, eng, m.tracer)
	m.sessions[strings.ToLower(id)] = session

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// List returns all sessions, oldest first
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// CleanupExpiredSessions removes sessions that haven't received input in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns a short unused ID; callers hold the write lock
func (m *Manager) generateSessionID() string {
	for {
		id := uuid.NewString()[:idLength]
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}
