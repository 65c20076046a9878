package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Mission describes a plateau and the rovers deployed on it, in deployment
// order. Missions are stored as JSON files.
type Mission struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Plateau     Bounds       `json:"plateau"`
	Rovers      []Deployment `json:"rovers"`
}

// Deployment is one rover landing: its initial placement and the command
// batch it runs right after being added.
type Deployment struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
	Commands    string `json:"commands"`
}

// ValidateMission checks a mission for structural correctness. Negative
// plateau extents, placements outside the plateau and unknown command
// characters are accepted; see MissionWarnings.
func ValidateMission(mission *Mission) error {
	if mission == nil {
		return fmt.Errorf("mission validation: mission is nil")
	}
	if mission.Name == "" {
		return fmt.Errorf("mission validation: name is required")
	}
	if len(mission.Rovers) == 0 {
		return fmt.Errorf("mission validation: at least one rover is required")
	}

	for i, d := range mission.Rovers {
		if _, err := ParseOrientation(d.Orientation); err != nil {
			return fmt.Errorf("mission validation: rover %d: %w", i+1, err)
		}
	}

	return nil
}

// MissionWarnings lists the permissive edge cases a mission relies on. None of
// them stop the mission from running.
func MissionWarnings(mission *Mission) []string {
	var warnings []string
	if mission == nil {
		return warnings
	}

	b := mission.Plateau
	if b.MaxX < 0 || b.MaxY < 0 {
		warnings = append(warnings, fmt.Sprintf("plateau has a negative extent (%d, %d)", b.MaxX, b.MaxY))
	}

	for i, d := range mission.Rovers {
		if d.X < 0 || d.Y < 0 || d.X > b.MaxX || d.Y > b.MaxY {
			warnings = append(warnings, fmt.Sprintf("rover %d starts outside the plateau at (%d, %d)", i+1, d.X, d.Y))
		}
		if bad := invalidCommands(d.Commands); bad != "" {
			warnings = append(warnings, fmt.Sprintf("rover %d has invalid commands %q that will be skipped", i+1, bad))
		}
	}

	return warnings
}

func invalidCommands(commands string) string {
	var b strings.Builder
	for _, c := range commands {
		switch c {
		case SpinLeft, SpinRight, MoveForward:
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Deploy builds a new simulation for the mission and runs every deployment
// in order: construct the rover, add it, then run its commands on it.
func (m *Mission) Deploy(sink Reporter) (*Simulation, error) {
	if err := ValidateMission(m); err != nil {
		return nil, err
	}

	sim := NewSimulation(m.Plateau.MaxX, m.Plateau.MaxY, WithReporter(sink))
	for i, d := range m.Rovers {
		rover, err := NewRover(d.X, d.Y, d.Orientation)
		if err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
		sim.AddRover(rover)

		if _, err := sim.RunCommandsOnCurrent(d.Commands); err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
	}

	return sim, nil
}

// LoadMissionFile loads and validates a mission from a JSON file
func LoadMissionFile(filename string) (*Mission, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var mission Mission
	if err := json.Unmarshal(data, &mission); err != nil {
		return nil, fmt.Errorf("failed to parse mission file '%s': %w", filename, err)
	}

	if err := ValidateMission(&mission); err != nil {
		return nil, fmt.Errorf("invalid mission '%s': %w", filename, err)
	}

	return &mission, nil
}
