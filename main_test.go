package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mars-rovers/rover/config"
	"github.com/wricardo/mars-rovers/rover/service"
	"github.com/wricardo/mars-rovers/rover/session"
	"github.com/wricardo/mars-rovers/transport/websocket"
)

const classicMission = `{
  "name": "Classic",
  "plateau": {"max_x": 5, "max_y": 5},
  "rovers": [
    {"x": 1, "y": 2, "orientation": "N", "commands": "LMLMLMLMM"},
    {"x": 3, "y": 3, "orientation": "E", "commands": "MMRMMRMRRM"}
  ]
}`

func testSettings() config.Settings {
	return config.Settings{
		Host:        "localhost",
		Port:        8080,
		MissionsDir: "missions",
	}
}

func writeMission(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write mission: %v", err)
	}
	return path
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Mars Rovers"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("missions"); os.IsNotExist(err) {
		t.Skip("Skipping test - missions directory not found")
	}

	roverService, manager, err := initializeServices("missions")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if roverService == nil {
		t.Fatal("Expected rover service to be initialized")
	}
	if manager == nil {
		t.Fatal("Expected session manager to be initialized")
	}

	missions, err := roverService.ListMissions(context.Background())
	if err != nil {
		t.Fatalf("Failed to list missions: %v", err)
	}
	if len(missions) == 0 {
		t.Error("Expected shipped missions to be listed")
	}
}

func TestInitializeServices_InvalidMissionsDir(t *testing.T) {
	_, _, err := initializeServices("/non/existent/path")
	if err == nil {
		t.Error("Expected error for non-existent missions directory")
	}
}

func TestRunMissions(t *testing.T) {
	path := writeMission(t, "classic.json", classicMission)

	var out bytes.Buffer
	if err := runMissions([]string{path}, &out); err != nil {
		t.Fatalf("runMissions failed: %v", err)
	}

	if got, want := out.String(), "1 3 N\n5 1 E\n"; got != want {
		t.Errorf("Expected output %q, got %q", want, got)
	}
}

func TestRunMissions_Errors(t *testing.T) {
	tests := []struct {
		name  string
		paths func(t *testing.T) []string
	}{
		{
			name:  "no files",
			paths: func(t *testing.T) []string { return nil },
		},
		{
			name:  "missing file",
			paths: func(t *testing.T) []string { return []string{"/non/existent/mission.json"} },
		},
		{
			name: "invalid orientation",
			paths: func(t *testing.T) []string {
				return []string{writeMission(t, "bad.json", `{"name":"Bad","rovers":[{"orientation":"Q"}]}`)}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runMissions(tt.paths(t), io.Discard); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestApp_Run(t *testing.T) {
	first := writeMission(t, "classic.json", classicMission)
	second := writeMission(t, "edge.json", `{
  "name": "Edge",
  "plateau": {"max_x": 1, "max_y": 1},
  "rovers": [{"x": 1, "y": 1, "orientation": "N", "commands": "MXM"}]
}`)

	var out bytes.Buffer
	app := newApp(testSettings(), strings.NewReader(""), &out)
	if err := app.Run(context.Background(), []string{"rovers", "run", first, second}); err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{"# Classic", "1 3 N", "5 1 E", "# Edge", "1 1 N", "Error: Valid commands are"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestApp_Console(t *testing.T) {
	input := "5 5\n1 2 N\nLMLMLMLMM\nx\n3 3 E\nMMRMMRMRRM\n \n"

	for _, args := range [][]string{{"rovers"}, {"rovers", "console"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var out bytes.Buffer
			app := newApp(testSettings(), strings.NewReader(input), &out)
			if err := app.Run(context.Background(), args); err != nil {
				t.Fatalf("console failed: %v", err)
			}

			if !strings.HasSuffix(out.String(), "1 3 N\n5 1 E\n") {
				t.Errorf("Expected report at the end, got:\n%s", out.String())
			}
		})
	}
}

func TestNewHTTPHandler(t *testing.T) {
	roverService := service.NewRoverService(session.NewManagerWithReporter(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := websocket.NewHub()
	go hub.Run(ctx)

	server := httptest.NewServer(newHTTPHandler(roverService, hub, "http://127.0.0.1:0"))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected health status 200, got %d", resp.StatusCode)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err = http.Post(server.URL+"/mcp", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("MCP request failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected MCP status 200, got %d: %s", resp.StatusCode, data)
	}
	if !strings.Contains(string(data), "send_commands") {
		t.Errorf("Expected tools/list to include send_commands, got %s", data)
	}
}

func TestSessionCleanupRoutine_StopsOnCancel(t *testing.T) {
	manager := session.NewManagerWithReporter(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup routine did not stop after cancel")
	}
}

func TestAPIReachable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	if !apiReachable(healthy.URL) {
		t.Error("Expected healthy server to be reachable")
	}

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	if apiReachable(unhealthy.URL) {
		t.Error("Expected failing server to be unreachable")
	}
}
