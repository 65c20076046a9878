package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mars-rovers/rover/engine"
	"github.com/wricardo/mars-rovers/rover/service"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func testSessionInfo(id string) *service.SessionInfo {
	state := engine.RoverState{Index: 0, X: 1, Y: 3, Orientation: "N"}
	return &service.SessionInfo{
		ID:      id,
		Plateau: engine.Bounds{MaxX: 5, MaxY: 5},
		Rovers:  []engine.RoverState{state},
		Current: &state,
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func startServer(t *testing.T, hub *Hub) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels must be initialized")
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Unregistered client's send channel should be closed")
	}

	hub.unregisterClient(client2)

	if _, exists := hub.sessions[sessionID]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()

	target := newTestClient(hub, "ab12")
	other := newTestClient(hub, "cd34")
	hub.registerClient(target)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		SessionID: "AB12",
		Session:   testSessionInfo("ab12"),
		Event:     EventStateUpdate,
	})

	select {
	case data := <-target.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %q", EventStateUpdate, message.Event)
		}
		if message.Session == nil || message.Session.Current.String() != "1 3 N" {
			t.Error("Session snapshot not correctly transmitted")
		}
	default:
		t.Error("Target client received nothing")
	}

	select {
	case <-other.send:
		t.Error("Client of another session must not receive the broadcast")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventStateUpdate})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Slow client should have been dropped")
	}
}

func TestHubBroadcastEventQueued(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", EventRoverAdded, "1 2 N")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" || message.Event != EventRoverAdded || message.Data != "1 2 N" {
			t.Errorf("Unexpected message %+v", message)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message queued")
	}
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.BroadcastToSession("any", nil)
		}
		if hub.ClientCount("any") != 0 {
			t.Error("Expected no clients on a stopped hub")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a stopped hub")
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := startHub(t)
	wsURL := startServer(t, hub) + "?session=WS01"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForClients(t, hub, "ws01", 1)

	conn.Close()

	waitForClients(t, hub, "ws01", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := startHub(t)
	wsURL := startServer(t, hub) + "?session=msg1"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "msg1", 1)

	hub.BroadcastToSession("msg1", testSessionInfo("msg1"))
	hub.BroadcastEvent("msg1", EventCommandsExecuted, map[string]int{"executed": 3})

	conn.SetReadDeadline(time.Now().Add(time.Second))

	var state Message
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("Failed to read state message: %v", err)
	}
	if state.Event != EventStateUpdate || state.Session == nil || len(state.Session.Rovers) != 1 {
		t.Errorf("Unexpected state message %+v", state)
	}

	var event Message
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event message: %v", err)
	}
	if event.Event != EventCommandsExecuted {
		t.Errorf("Expected %q, got %q", EventCommandsExecuted, event.Event)
	}
	data, ok := event.Data.(map[string]interface{})
	if !ok || data["executed"] != float64(3) {
		t.Errorf("Unexpected event data %#v", event.Data)
	}
}

func TestWebSocketClosedOnShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	wsURL := startServer(t, hub) + "?session=bye1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "bye1", 1)

	cancel()
	<-hub.done

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after hub shutdown")
	}
}
