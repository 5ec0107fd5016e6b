package monitor

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastReachesConnectedObserver(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	// Give the server goroutine a moment to register the new client.
	deadline := time.Now().Add(2 * time.Second)
	for srv.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if srv.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", srv.ClientCount())
	}

	frame := NewGridBuildFrame(4, 16, time.Unix(0, 0))
	if err := srv.Broadcast(frame); err != nil {
		t.Fatalf("Broadcast() error: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error: %v", err)
	}

	var got ProgressFrame
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Kind != "grid_build" {
		t.Errorf("Kind = %q, want grid_build", got.Kind)
	}
	if got.Detail["cells_populated"].(float64) != 4 {
		t.Errorf("cells_populated = %v, want 4", got.Detail["cells_populated"])
	}
}

func TestClientCountDropsOnClose(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for srv.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := srv.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d after close, want 0", got)
	}
}
