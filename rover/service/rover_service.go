package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mars-rovers/rover/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMissionNotFound = errors.New("mission not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

// RoverService defines all rover-related operations
type RoverService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	AddRover(ctx context.Context, sessionID string, req AddRoverRequest) (*AddRoverResult, error)
	SendCommands(ctx context.Context, sessionID, commands string) (*CommandResult, error)
	Report(ctx context.Context, sessionID string) (*ReportResponse, error)

	// Missions
	ListMissions(ctx context.Context) ([]*MissionInfo, error)
	LoadMission(ctx context.Context, name string) (*engine.Mission, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, spec SimulationSpec) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// MissionCatalog handles mission file loading
type MissionCatalog interface {
	LoadMission(name string) (*engine.Mission, error)
	ListMissions() ([]*MissionInfo, error)
}

// SimulationSpec describes how a new session's simulation is built. When
// Mission is set it is deployed and Bounds is ignored.
type SimulationSpec struct {
	Bounds      engine.Bounds
	Mission     *engine.Mission
	MissionName string
}

// Session represents an active simulation session
type Session struct {
	ID             string
	Simulation     *engine.Simulation
	Mission        string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
