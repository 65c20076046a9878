package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mars-rovers/rover/engine"
	"github.com/wricardo/mars-rovers/rover/service"
)

var (
	ErrMissionNotFound = service.ErrMissionNotFound
	ErrInvalidMission  = errors.New("invalid mission")
)

var _ service.MissionCatalog = (*Catalog)(nil)

// Catalog handles mission file loading and caching
type Catalog struct {
	missionDir string
	missions   map[string]*engine.Mission
	mu         sync.RWMutex
}

// NewCatalog creates a new mission catalog over missionDir
func NewCatalog(missionDir string) (*Catalog, error) {
	// Ensure mission directory exists
	info, err := os.Stat(missionDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("mission directory does not exist: %s", missionDir)
		}
		return nil, fmt.Errorf("failed to stat mission directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mission path is not a directory: %s", missionDir)
	}

	return &Catalog{
		missionDir: missionDir,
		missions:   make(map[string]*engine.Mission),
	}, nil
}

// Dir returns the directory the catalog reads from
func (c *Catalog) Dir() string {
	return c.missionDir
}

// LoadMission loads a mission by its identifier (file name without .json)
func (c *Catalog) LoadMission(name string) (*engine.Mission, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrMissionNotFound, name)
	}

	c.mu.RLock()
	// Check cache first
	if mission, exists := c.missions[name]; exists {
		c.mu.RUnlock()
		return mission, nil
	}
	c.mu.RUnlock()

	// Load from file
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if mission, exists := c.missions[name]; exists {
		return mission, nil
	}

	missionPath := filepath.Join(c.missionDir, name+".json")

	data, err := os.ReadFile(missionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, name)
		}
		return nil, fmt.Errorf("failed to read mission file: %w", err)
	}

	var mission engine.Mission
	if err := json.Unmarshal(data, &mission); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidMission, name, err)
	}

	if err := engine.ValidateMission(&mission); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMission, err)
	}

	c.missions[name] = &mission
	return &mission, nil
}

// ListMissions returns information about all valid missions, sorted by ID
func (c *Catalog) ListMissions() ([]*service.MissionInfo, error) {
	entries, err := os.ReadDir(c.missionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission directory: %w", err)
	}

	missions := []*service.MissionInfo{}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		mission, err := c.LoadMission(id)
		if err != nil {
			// Skip invalid missions
			continue
		}

		missions = append(missions, &service.MissionInfo{
			Filename:    entry.Name(),
			MissionID:   id,
			Name:        mission.Name,
			Description: mission.Description,
			Plateau:     mission.Plateau,
			RoverCount:  len(mission.Rovers),
		})
	}

	sort.Slice(missions, func(i, j int) bool {
		return missions[i].MissionID < missions[j].MissionID
	})

	return missions, nil
}

// RefreshCache drops every cached mission so the next load rereads disk
func (c *Catalog) RefreshCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missions = make(map[string]*engine.Mission)
}
