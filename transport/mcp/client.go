package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mars-rovers/rover/engine"
	"github.com/wricardo/mars-rovers/rover/service"
)

// ServerVersion is reported to MCP clients during initialization
const ServerVersion = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rovers",
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rovers - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rovers land on a rectangular plateau whose lower-left corner is (0, 0).
Each rover faces E, N, W or S and understands three commands:
L (spin left), R (spin right) and M (move forward one grid point).

AVAILABLE TOOLS:
- create_session: Create a plateau (max_x, max_y) or deploy a named mission
- list_sessions: List all active sessions
- get_session: Get a session snapshot including every rover
- add_rover: Land a new rover; it becomes the current rover
- send_commands: Run a command string on the current (newest) rover
- report: Final position of every rover, in landing order
- list_missions: List mission files available to create_session
- rover_instructions: Full rules for movement and error handling`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session, either with an explicit plateau or from a mission",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"max_x": map[string]interface{}{
					"type":        "integer",
					"description": "Upper-right X coordinate of the plateau",
				},
				"max_y": map[string]interface{}{
					"type":        "integer",
					"description": "Upper-right Y coordinate of the plateau",
				},
				"mission": map[string]interface{}{
					"type":        "string",
					"description": "Mission ID to deploy instead of an empty plateau (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Rover operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_rover",
		Description: "Land a new rover on the plateau. It becomes the rover that receives commands.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Initial X coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Initial Y coordinate",
				},
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"E", "N", "W", "S"},
					"description": "Initial orientation",
				},
			},
			Required: []string{"session_id", "x", "y", "orientation"},
		},
	}, c.handleAddRover)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "send_commands",
		Description: "Run a string of L, R and M commands on the most recently added rover",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"commands": map[string]interface{}{
					"type":        "string",
					"description": "Commands such as LMLMLMLMM",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleSendCommands)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "report",
		Description: "Report the position and orientation of every rover in landing order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReport)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_missions",
		Description: "List available mission files",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMissions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rover_instructions",
		Description: "Get the rules for rover movement, commands and errors",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRoverInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Handler returns an http.Handler that answers single JSON-RPC messages
// posted to it.
func (c *Client) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// apiCall makes an HTTP request to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument; JSON numbers decode as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	body := service.CreateSessionRequest{}
	body.Mission, _ = args["mission"].(string)

	var ok bool
	if body.MaxX, ok = intArg(args, "max_x"); !ok && args["max_x"] != nil {
		return mcp.NewToolResultError("max_x must be an integer"), nil
	}
	if body.MaxY, ok = intArg(args, "max_y"); !ok && args["max_y"] != nil {
		return mcp.NewToolResultError("max_y must be an integer"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created session: " + formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", resp.Count)
	for _, session := range resp.Sessions {
		fmt.Fprintf(&b, "- %s: plateau %dx%d, %d rover(s)", session.ID, session.Plateau.MaxX, session.Plateau.MaxY, len(session.Rovers))
		if session.Mission != "" {
			fmt.Fprintf(&b, ", mission %s", session.Mission)
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleAddRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := service.AddRoverRequest{}
	body.Orientation, _ = args["orientation"].(string)

	var ok bool
	if body.X, ok = intArg(args, "x"); !ok {
		return mcp.NewToolResultError("x must be an integer"), nil
	}
	if body.Y, ok = intArg(args, "y"); !ok {
		return mcp.NewToolResultError("y must be an integer"), nil
	}

	var result service.AddRoverResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/rovers"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Rover #%d landed at %s (%d rover(s) in session %s). It is now the current rover.",
		result.Rover.Index, result.Rover, result.RoverCount, result.SessionID)
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleSendCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	commands, _ := args["commands"].(string)

	body := map[string]string{"commands": commands}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/commands"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var report service.ReportResponse
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/report"), nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(report.Lines) == 0 {
		return mcp.NewToolResultText("No rovers have landed yet"), nil
	}

	return mcp.NewToolResultText(strings.Join(report.Lines, "\n")), nil
}

func (c *Client) handleListMissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var missions []*service.MissionInfo
	if err := c.apiCall(ctx, "GET", "/api/missions", nil, &missions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMissions(missions)), nil
}

func (c *Client) handleRoverInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(roverInstructions), nil
}

const roverInstructions = `MARS ROVERS - RULES

PLATEAU
The plateau is a grid from (0, 0) at the lower-left corner to (max_x, max_y)
at the upper-right corner. North is +Y, East is +X.

ROVERS
A rover has a position and one of four orientations: E, N, W, S.
Rovers land one at a time. Commands always go to the most recently landed
rover; earlier rovers never move again. Rovers do not collide with each other.

COMMANDS
- L: spin 90 degrees left (E -> N -> W -> S -> E)
- R: spin 90 degrees right (E -> S -> W -> N -> E)
- M: move one grid point forward

EDGES
A move that would leave the plateau is ignored; the rover stays where it is
and keeps its orientation. Landing outside the plateau is allowed.

ERRORS
- An invalid command character is skipped and reported; the rest of the
  command string still runs.
- An orientation other than E, N, W or S rejects the landing.
- Sending commands before any rover has landed is an error.

EXAMPLE
create_session max_x=5 max_y=5
add_rover x=1 y=2 orientation=N, send_commands LMLMLMLMM  -> 1 3 N
add_rover x=3 y=3 orientation=E, send_commands MMRMMRMRRM -> 5 1 E`

// Format helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nPlateau: %dx%d\n", session.ID, session.Plateau.MaxX, session.Plateau.MaxY)
	if session.Mission != "" {
		fmt.Fprintf(&b, "Mission: %s\n", session.Mission)
	}

	if len(session.Rovers) == 0 {
		b.WriteString("Rovers: none\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Rovers (%d):\n", len(session.Rovers))
	for _, rover := range session.Rovers {
		marker := ""
		if session.Current != nil && session.Current.Index == rover.Index {
			marker = " (current)"
		}
		fmt.Fprintf(&b, "  #%d %s%s\n", rover.Index, rover, marker)
	}
	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rover #%d: %s -> %s\n", result.After.Index, result.Before, result.After)
	fmt.Fprintf(&b, "Executed %d command(s)", result.Executed)

	if len(result.Rejected) > 0 {
		bad := make([]string, 0, len(result.Rejected))
		for _, r := range result.Rejected {
			bad = append(bad, fmt.Sprintf("%q at %d", r.Command, r.Index))
		}
		fmt.Fprintf(&b, ", skipped %d invalid: %s\n%s", len(result.Rejected), strings.Join(bad, ", "), engine.CommandMessage)
	}
	b.WriteString("\n")
	return b.String()
}

func formatMissions(missions []*service.MissionInfo) string {
	if len(missions) == 0 {
		return "No missions available"
	}

	var b strings.Builder
	b.WriteString("Available missions:\n")
	for _, m := range missions {
		fmt.Fprintf(&b, "- %s: %s (plateau %dx%d, %d rover(s))", m.MissionID, m.Name, m.Plateau.MaxX, m.Plateau.MaxY, m.RoverCount)
		if m.Description != "" {
			fmt.Fprintf(&b, " - %s", m.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
