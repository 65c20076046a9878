// Package mcp provides a Model Context Protocol server for the Mars Rovers simulator.
//
// The package implements:
//   - Tool definitions for simulation operations
//   - An HTTP client that forwards every tool call to the REST API
//   - Plain-text formatting of sessions, command results and missions
//
// Available Tools:
//   - create_session: Create a session from plateau bounds or a mission
//   - list_sessions: List active sessions
//   - get_session: Show plateau, rovers and the current rover
//   - add_rover: Land a rover at "x y D"; it becomes the current rover
//   - send_commands: Run an L/R/M batch on the current rover
//   - report: Final positions of every rover in deployment order
//   - list_missions: List mission files available to create_session
//   - rover_instructions: Explain the command language and grid rules
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer()) for local MCP clients
//   - HTTP: client.Handler() mounted at /mcp, one JSON-RPC message per POST
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	http.Handle("/mcp", client.Handler())
package mcp
