// Package websocket pushes simulation updates to browser and tool clients.
//
// A central Hub owns every connection. Clients subscribe to one session by
// connecting to /ws?session=<id>; the hub keeps a client set per session
// and fans each broadcast out to that set only. Session IDs are matched
// case-insensitively.
//
// Message Protocol:
//
// Every frame is one JSON Message. State updates carry a full
// service.SessionInfo snapshot:
//
//	{"session_id": "ab12", "event": "state_update", "session": {...}}
//
// Events such as rover_added and commands_executed carry their payload in
// the data field instead. Anything a client sends is read and discarded.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Slow clients whose send buffer fills up are disconnected.
package websocket
