// Package service provides the business logic layer for the Mars Rovers service.
//
// The service package implements:
//   - Multi-session simulation management
//   - Rover deployment and command routing per session
//   - Mission lookup and deployment into new sessions
//   - Final position reporting
//
// Core Interfaces:
//
// RoverService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// MissionCatalog lists and loads mission files.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the rover engine, providing session isolation and orchestration. Each
// session owns exactly one engine.Simulation; access to it is serialized by
// the service, so the engine itself stays single-threaded.
//
// Usage:
//
//	sessions := session.NewManager()
//	missions, _ := config.NewCatalog("missions")
//	svc := service.NewRoverService(sessions, missions)
//
//	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{MaxX: 5, MaxY: 5})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc.AddRover(ctx, info.ID, service.AddRoverRequest{X: 1, Y: 2, Orientation: "N"})
//	result, err := svc.SendCommands(ctx, info.ID, "LMLMLMLMM")
//
// Invalid command characters never fail SendCommands; they are returned in
// CommandResult.Rejected and the rest of the batch still runs.
package service
