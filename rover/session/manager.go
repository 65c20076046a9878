package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mars-rovers/rover/engine"
	"github.com/wricardo/mars-rovers/rover/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

var _ service.SessionManager = (*Manager)(nil)

// ReporterFactory builds the sink that receives rejected-command messages
// for a session's simulation.
type ReporterFactory func(sessionID string) engine.Reporter

// Manager handles simulation session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	reporter ReporterFactory
	mu       sync.RWMutex
}

// NewManager creates a new session manager whose simulations log rejected
// commands through the standard logger.
func NewManager() *Manager {
	return NewManagerWithReporter(logReporter)
}

// NewManagerWithReporter creates a new session manager with a custom reporter factory
func NewManagerWithReporter(factory ReporterFactory) *Manager {
	if factory == nil {
		factory = func(string) engine.Reporter { return engine.Discard }
	}
	return &Manager{
		sessions: make(map[string]*service.Session),
		reporter: factory,
	}
}

func logReporter(sessionID string) engine.Reporter {
	return engine.ReporterFunc(func(message string) {
		log.Printf("[ROVER] session=%s %s", sessionID, message)
	})
}

// Create creates a new session with the given ID and simulation spec
func (m *Manager) Create(id string, spec service.SimulationSpec) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateUniqueID()
	} else if strings.TrimSpace(id) != id || strings.ContainsAny(id, "/ ") {
		return nil, ErrInvalidSessionID
	}

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	sim, err := buildSimulation(spec, m.reporter(id))
	if err != nil {
		return nil, fmt.Errorf("failed to build simulation: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Simulation:     sim,
		Mission:        spec.MissionName,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[strings.ToLower(id)] = session

	return session, nil
}

func buildSimulation(spec service.SimulationSpec, reporter engine.Reporter) (*engine.Simulation, error) {
	if spec.Mission != nil {
		return spec.Mission.Deploy(reporter)
	}
	return engine.NewSimulation(spec.Bounds.MaxX, spec.Bounds.MaxY, engine.WithReporter(reporter)), nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return session, nil
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateUniqueID returns a random ID not yet in use, widening from 4 to
// 8 characters once the short space gets crowded. Caller must hold m.mu.
func (m *Manager) generateUniqueID() string {
	size := 2
	for attempt := 0; ; attempt++ {
		if attempt == 32 {
			size = 4
		}
		id := generateSessionID(size)
		if !m.sessionExists(id) {
			return id
		}
	}
}

// generateSessionID generates a random hex session ID of 2*size characters
func generateSessionID(size int) string {
	bytes := make([]byte, size)
	// Since Go 1.24 rand.Read never returns an error; it aborts the program instead
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
