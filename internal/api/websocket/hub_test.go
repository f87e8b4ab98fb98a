package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zaptest.NewLogger(t))
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return event
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.logger == nil {
		t.Error("Hub logger is nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := newRunningHub(t)

	if !hub.BroadcastEvent(Event{Type: "catch:resolved", Data: map[string]int{"pokemonId": 25}}) {
		t.Error("Expected broadcast to be accepted by a running hub")
	}
}

func TestHub_BroadcastUnmarshalableData(t *testing.T) {
	hub := newRunningHub(t)

	if hub.BroadcastEvent(Event{Type: "bad", Data: make(chan int)}) {
		t.Error("Expected broadcast of unmarshalable data to fail")
	}
}

func TestHub_MultipleClients(t *testing.T) {
	hub := newRunningHub(t)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conns := []*websocket.Conn{dial(t, server), dial(t, server), dial(t, server)}
	waitForClients(t, hub, 3)

	hub.BroadcastEvent(Event{Type: "catalog:progress", Data: map[string]int{"percent": 50}})

	for i, conn := range conns {
		event := readEvent(t, conn)
		if event.Type != "catalog:progress" {
			t.Errorf("Client %d expected type catalog:progress, got %s", i, event.Type)
		}
		data, ok := event.Data.(map[string]interface{})
		if !ok || data["percent"] != float64(50) {
			t.Errorf("Client %d got unexpected data %v", i, event.Data)
		}
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := newRunningHub(t)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	hub.Stop()
	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	if !hub.IsStopped() {
		t.Error("Expected hub to report stopped")
	}
	if hub.BroadcastEvent(Event{Type: "late"}) {
		t.Error("Expected broadcast after stop to be rejected")
	}

	w := httptest.NewRecorder()
	hub.ServeWs(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after stop, got %d", w.Code)
	}
}
