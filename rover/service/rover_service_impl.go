package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/wricardo/mars-rovers/rover/engine"
)

// roverServiceImpl implements the RoverService interface
type roverServiceImpl struct {
	sessions SessionManager
	missions MissionCatalog
	mu       sync.RWMutex
}

// NewRoverService creates a new rover service instance. missions may be nil
// when no mission directory is configured.
func NewRoverService(sessions SessionManager, missions MissionCatalog) RoverService {
	return &roverServiceImpl{
		sessions: sessions,
		missions: missions,
	}
}

// CreateSession creates a new simulation session
func (s *roverServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec := SimulationSpec{
		Bounds: engine.Bounds{MaxX: req.MaxX, MaxY: req.MaxY},
	}

	if req.Mission != "" {
		mission, err := s.loadMission(req.Mission)
		if err != nil {
			return nil, err
		}
		spec.Mission = mission
		spec.MissionName = req.Mission
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return buildSessionInfo(session), nil
}

// GetSession retrieves session information
func (s *roverServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return buildSessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *roverServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, buildSessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *roverServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// AddRover builds a rover and appends it to the session's simulation. An
// invalid orientation leaves the session unchanged.
func (s *roverServiceImpl) AddRover(ctx context.Context, sessionID string, req AddRoverRequest) (*AddRoverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	rover, err := engine.NewRover(req.X, req.Y, req.Orientation)
	if err != nil {
		return nil, err
	}

	sess.Simulation.AddRover(rover)
	index := sess.Simulation.Len() - 1

	return &AddRoverResult{
		SessionID:  sess.ID,
		Rover:      rover.State(index),
		RoverCount: sess.Simulation.Len(),
	}, nil
}

// SendCommands runs a command batch on the session's current rover
func (s *roverServiceImpl) SendCommands(ctx context.Context, sessionID, commands string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	current, ok := sess.Simulation.Current()
	if !ok {
		return nil, engine.ErrNoRoverPresent
	}
	index := sess.Simulation.Len() - 1
	before := current.State(index)

	rejected, err := sess.Simulation.RunCommandsOnCurrent(commands)
	if err != nil {
		return nil, err
	}

	result := &CommandResult{
		SessionID: sess.ID,
		Commands:  commands,
		Before:    before,
		After:     current.State(index),
		Executed:  utf8.RuneCountInString(commands) - len(rejected),
	}

	for _, r := range rejected {
		result.Rejected = append(result.Rejected, RejectedCommand{
			Index:   r.Index,
			Command: string(r.Command),
			Message: engine.CommandMessage,
		})
	}

	return result, nil
}

// Report renders every rover of the session in deployment order
func (s *roverServiceImpl) Report(ctx context.Context, sessionID string) (*ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	lines := slices.Collect(sess.Simulation.Report())
	if lines == nil {
		lines = []string{}
	}

	return &ReportResponse{
		SessionID: sess.ID,
		Plateau:   sess.Simulation.Bounds(),
		Lines:     lines,
	}, nil
}

// ListMissions returns all available missions
func (s *roverServiceImpl) ListMissions(ctx context.Context) ([]*MissionInfo, error) {
	if s.missions == nil {
		return []*MissionInfo{}, nil
	}
	return s.missions.ListMissions()
}

// LoadMission returns a mission by its identifier
func (s *roverServiceImpl) LoadMission(ctx context.Context, name string) (*engine.Mission, error) {
	return s.loadMission(name)
}

func (s *roverServiceImpl) loadMission(name string) (*engine.Mission, error) {
	if s.missions == nil {
		return nil, fmt.Errorf("%w: %s (no mission directory configured)", ErrMissionNotFound, name)
	}

	mission, err := s.missions.LoadMission(name)
	if err != nil {
		// Provide helpful error message with available options
		if errors.Is(err, ErrMissionNotFound) {
			available, listErr := s.missions.ListMissions()
			if listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, m := range available {
					ids = append(ids, m.MissionID)
				}
				return nil, fmt.Errorf("%w: '%s'. Available missions: %s", ErrMissionNotFound, name, strings.Join(ids, ", "))
			}
		}
		return nil, fmt.Errorf("failed to load mission %s: %w", name, err)
	}

	return mission, nil
}

// buildSessionInfo snapshots a session for transport
func buildSessionInfo(session *Session) *SessionInfo {
	info := &SessionInfo{
		ID:             session.ID,
		Mission:        session.Mission,
		Plateau:        session.Simulation.Bounds(),
		Rovers:         session.Simulation.States(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}

	if n := len(info.Rovers); n > 0 {
		current := info.Rovers[n-1]
		info.Current = &current
	}

	return info
}
