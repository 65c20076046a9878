package service

import (
	"time"

	"github.com/wricardo/mars-rovers/rover/engine"
)

// CreateSessionRequest selects either an explicit plateau or a mission
type CreateSessionRequest struct {
	MaxX    int    `json:"max_x"`
	MaxY    int    `json:"max_y"`
	Mission string `json:"mission,omitempty"`
}

// AddRoverRequest is the initial placement of a new rover
type AddRoverRequest struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string              `json:"id"`
	Mission        string              `json:"mission,omitempty"`
	Plateau        engine.Bounds       `json:"plateau"`
	Rovers         []engine.RoverState `json:"rovers"`
	Current        *engine.RoverState  `json:"current,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
}

// AddRoverResult is returned after a rover joins a session
type AddRoverResult struct {
	SessionID  string            `json:"session_id"`
	Rover      engine.RoverState `json:"rover"`
	RoverCount int               `json:"rover_count"`
}

// CommandResult contains the outcome of one command batch
type CommandResult struct {
	SessionID string            `json:"session_id"`
	Commands  string            `json:"commands"`
	Before    engine.RoverState `json:"before"`
	After     engine.RoverState `json:"after"`
	Executed  int               `json:"executed"`
	Rejected  []RejectedCommand `json:"rejected,omitempty"`
}

// RejectedCommand is a command character that was skipped
type RejectedCommand struct {
	Index   int    `json:"index"`
	Command string `json:"command"`
	Message string `json:"message"`
}

// ReportResponse lists the rendered rovers of a session in deployment order
type ReportResponse struct {
	SessionID string        `json:"session_id"`
	Plateau   engine.Bounds `json:"plateau"`
	Lines     []string      `json:"lines"`
}

// MissionInfo provides information about a mission file
type MissionInfo struct {
	Filename    string        `json:"filename"`
	MissionID   string        `json:"mission_id"` // The identifier to use for session creation
	Name        string        `json:"name"`       // Display name
	Description string        `json:"description"`
	Plateau     engine.Bounds `json:"plateau"`
	RoverCount  int           `json:"rover_count"`
}
