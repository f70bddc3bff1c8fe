package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// dialTestClient spins up a websocket server that registers every
// connection with the hub, then dials it.
func dialTestClient(t *testing.T, hub *BroadcastService) (*websocket.Conn, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		hub.Register(conn)
	}))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("Dial failed: %v", err)
	}

	cleanup := func() {
		client.Close()
		server.Close()
	}
	return client, cleanup
}

func TestBroadcastReachesRegisteredClients(t *testing.T) {
	hub := newBroadcastService()

	client, cleanup := dialTestClient(t, hub)
	defer cleanup()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast(ApprovalEvent{
		Event:       EventApproved,
		Target_Type: "request",
		Target_ID:   7,
	})

	client.SetReadDeadline(time.Now().Add(time.Second))
	var received ApprovalEvent
	err := client.ReadJSON(&received)
	assert.NoError(t, err)
	assert.Equal(t, EventApproved, received.Event)
	assert.Equal(t, 7, received.Target_ID)
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	hub := newBroadcastService()

	client, cleanup := dialTestClient(t, hub)
	defer cleanup()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	client.Close()

	// Writes to the closed connection should fail and unregister it.
	// The first write may still land in OS buffers, so try a few times.
	assert.Eventually(t, func() bool {
		hub.Broadcast(ApprovalEvent{Event: EventRemoved, Target_Type: "request", Target_ID: 1})
		return hub.ClientCount() == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := newBroadcastService()

	_, cleanup := dialTestClient(t, hub)
	defer cleanup()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	var serverConn *websocket.Conn
	for conn := range hub.clients {
		serverConn = conn
	}
	hub.mu.RUnlock()

	hub.Unregister(serverConn)
	hub.Unregister(serverConn)

	assert.Equal(t, 0, hub.ClientCount())
}

func TestConcurrentBroadcastsSerializeWrites(t *testing.T) {
	hub := newBroadcastService()

	client, cleanup := dialTestClient(t, hub)
	defer cleanup()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	const senders = 4
	const perSender = 50

	// Drain everything the hub writes so the connection buffers never
	// fill up. The race detector flags any unserialized writes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var event ApprovalEvent
		for {
			if err := client.ReadJSON(&event); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Broadcast(ApprovalEvent{Event: EventApproved, Target_Type: "request", Target_ID: id})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, hub.ClientCount())

	client.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not stop after close")
	}
}

func TestBroadcastApprovalEventIsNilSafe(t *testing.T) {
	old := broadcastService
	broadcastService = nil
	defer func() { broadcastService = old }()

	// must not panic without an initialized hub
	BroadcastApprovalEvent(EventApproved, "request", 1)
}
