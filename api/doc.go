// Package api provides the HTTP REST API for the Mars Rovers service.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session from {"max_x","max_y"} or {"mission"}
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit, mission)
//   - GET /api/sessions/{id} - Get a session snapshot
//   - DELETE /api/sessions/{id} - Delete a session
//
// Rover Operations:
//   - POST /api/sessions/{id}/rovers - Add a rover {"x","y","orientation"}
//   - POST /api/sessions/{id}/commands - Run {"commands"} on the newest rover
//   - GET /api/sessions/{id}/report - Final positions (format=text for plain lines)
//
// Missions:
//   - GET /api/missions - List mission files
//   - GET /api/missions/{name} - Get a mission with its warnings
//
// Other:
//   - GET /api/health - Health check
//   - GET /ws?session={id} - WebSocket updates for one session
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Unknown sessions and missions
// map to 404, malformed bodies and invalid orientations to 400, and sending
// commands to a session without rovers to 409.
//
// Invalid command characters are not errors: they are skipped and listed in
// the "rejected" field of the command response.
package api
