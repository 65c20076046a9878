package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mars-rovers/rover/engine"
)

func createValidMission() *engine.Mission {
	return &engine.Mission{
		Name:        "Test Mission",
		Description: "Test mission",
		Plateau:     engine.Bounds{MaxX: 5, MaxY: 5},
		Rovers: []engine.Deployment{
			{X: 1, Y: 2, Orientation: "N", Commands: "LMLMLMLMM"},
		},
	}
}

func writeMissionFile(t *testing.T, dir, name string, mission *engine.Mission) {
	t.Helper()

	data, err := json.MarshalIndent(mission, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal mission: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write mission file: %v", err)
	}
}

func TestNewCatalog(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewCatalog(dir); err != nil {
		t.Fatalf("Expected catalog for existing dir, got %v", err)
	}

	if _, err := NewCatalog(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}

	file := filepath.Join(dir, "file.txt")
	os.WriteFile(file, []byte("x"), 0644)
	if _, err := NewCatalog(file); err == nil {
		t.Error("Expected error when path is a file")
	}
}

func TestCatalog_LoadMission(t *testing.T) {
	dir := t.TempDir()
	writeMissionFile(t, dir, "test", createValidMission())

	catalog, err := NewCatalog(dir)
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "by id", id: "test"},
		{name: "with extension", id: "test.json"},
		{name: "missing", id: "nope", wantErr: ErrMissionNotFound},
		{name: "empty", id: "", wantErr: ErrMissionNotFound},
		{name: "path traversal", id: "../test", wantErr: ErrMissionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mission, err := catalog.LoadMission(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if mission.Name != "Test Mission" {
				t.Errorf("Expected Test Mission, got %q", mission.Name)
			}
		})
	}
}

func TestCatalog_LoadMission_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := createValidMission()
	bad.Rovers[0].Orientation = "Q"
	writeMissionFile(t, dir, "bad", bad)
	os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{not json"), 0644)

	catalog, _ := NewCatalog(dir)

	_, err := catalog.LoadMission("bad")
	if !errors.Is(err, ErrInvalidMission) {
		t.Errorf("Expected ErrInvalidMission, got %v", err)
	}
	if !errors.Is(err, engine.ErrInvalidOrientation) {
		t.Errorf("Expected wrapped ErrInvalidOrientation, got %v", err)
	}

	if _, err := catalog.LoadMission("garbage"); !errors.Is(err, ErrInvalidMission) {
		t.Errorf("Expected ErrInvalidMission for malformed JSON, got %v", err)
	}
}

func TestCatalog_Cache(t *testing.T) {
	dir := t.TempDir()
	writeMissionFile(t, dir, "test", createValidMission())

	catalog, _ := NewCatalog(dir)

	first, err := catalog.LoadMission("test")
	if err != nil {
		t.Fatalf("Failed to load mission: %v", err)
	}

	updated := createValidMission()
	updated.Name = "Updated"
	writeMissionFile(t, dir, "test", updated)

	second, _ := catalog.LoadMission("test")
	if second != first {
		t.Error("Expected cached mission instance")
	}

	catalog.RefreshCache()

	third, err := catalog.LoadMission("test")
	if err != nil {
		t.Fatalf("Failed to reload mission: %v", err)
	}
	if third.Name != "Updated" {
		t.Errorf("Expected refreshed mission, got %q", third.Name)
	}
}

func TestCatalog_ListMissions(t *testing.T) {
	dir := t.TempDir()

	beta := createValidMission()
	beta.Name = "Beta"
	beta.Rovers = append(beta.Rovers, engine.Deployment{X: 3, Y: 3, Orientation: "E"})
	writeMissionFile(t, dir, "beta", beta)
	writeMissionFile(t, dir, "alpha", createValidMission())

	broken := createValidMission()
	broken.Name = ""
	writeMissionFile(t, dir, "broken", broken)

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0755)

	catalog, _ := NewCatalog(dir)

	missions, err := catalog.ListMissions()
	if err != nil {
		t.Fatalf("Failed to list missions: %v", err)
	}

	if len(missions) != 2 {
		t.Fatalf("Expected 2 valid missions, got %d", len(missions))
	}
	if missions[0].MissionID != "alpha" || missions[1].MissionID != "beta" {
		t.Errorf("Expected sorted ids alpha, beta; got %s, %s", missions[0].MissionID, missions[1].MissionID)
	}
	if missions[1].RoverCount != 2 {
		t.Errorf("Expected 2 rovers for beta, got %d", missions[1].RoverCount)
	}
	if missions[0].Filename != "alpha.json" {
		t.Errorf("Expected filename alpha.json, got %q", missions[0].Filename)
	}
}

func TestCatalog_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeMissionFile(t, dir, "test", createValidMission())

	catalog, _ := NewCatalog(dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := catalog.LoadMission("test"); err != nil {
				t.Errorf("Failed to load mission: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestCatalog_ShippedMissions(t *testing.T) {
	catalog, err := NewCatalog(filepath.Join("..", "..", "missions"))
	if err != nil {
		t.Skipf("missions directory not available: %v", err)
	}

	missions, err := catalog.ListMissions()
	if err != nil {
		t.Fatalf("Failed to list missions: %v", err)
	}
	if len(missions) == 0 {
		t.Fatal("Expected shipped missions to load")
	}

	classic, err := catalog.LoadMission("classic")
	if err != nil {
		t.Fatalf("Failed to load classic mission: %v", err)
	}
	sim, err := classic.Deploy(nil)
	if err != nil {
		t.Fatalf("Failed to deploy classic mission: %v", err)
	}

	var lines []string
	for line := range sim.Report() {
		lines = append(lines, line)
	}
	if len(lines) != 2 || lines[0] != "1 3 N" || lines[1] != "5 1 E" {
		t.Errorf("Unexpected classic report %v", lines)
	}
}
