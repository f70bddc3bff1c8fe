package services

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// ApprovalEvent is pushed to connected slideshow clients whenever
// moderation changes what should be on screen.
type ApprovalEvent struct {
	Event       string `json:"event"`
	Target_Type string `json:"targetType"`
	Target_ID   int    `json:"targetId"`
}

// Event names carried by ApprovalEvent.
const (
	EventApproved       = "approved"
	EventDenied         = "denied"
	EventRemoved        = "removed"
	EventUpdateApproved = "update_approved"
)

// BroadcastService fans approval events out to slideshow websocket
// connections. Dead connections are dropped on write failure.
// Gorilla connections allow at most one concurrent writer, so each
// connection carries its own write mutex.
type BroadcastService struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

var broadcastService *BroadcastService

func newBroadcastService() *BroadcastService {
	return &BroadcastService{
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func InitBroadcastService() {
	broadcastService = newBroadcastService()
	log.Println("Realtime broadcast service initialized")
}

func GetBroadcastService() *BroadcastService {
	return broadcastService
}

// Register adds a slideshow client connection.
func (b *BroadcastService) Register(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[conn] = &sync.Mutex{}
}

// Unregister removes and closes a client connection.
func (b *BroadcastService) Unregister(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		conn.Close()
	}
}

// ClientCount returns the number of connected slideshow clients.
func (b *BroadcastService) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Broadcast writes the event to every connected client. Connections that
// fail the write are unregistered.
func (b *BroadcastService) Broadcast(event ApprovalEvent) {
	type client struct {
		conn    *websocket.Conn
		writeMu *sync.Mutex
	}

	b.mu.RLock()
	clients := make([]client, 0, len(b.clients))
	for conn, writeMu := range b.clients {
		clients = append(clients, client{conn, writeMu})
	}
	b.mu.RUnlock()

	for _, c := range clients {
		c.writeMu.Lock()
		err := c.conn.WriteJSON(event)
		c.writeMu.Unlock()
		if err != nil {
			log.Printf("Dropping slideshow client after write error: %v", err)
			b.Unregister(c.conn)
		}
	}
}

// BroadcastApprovalEvent is a nil-safe helper for controllers; the hub is
// optional in tests.
func BroadcastApprovalEvent(event string, targetType string, targetID int) {
	if broadcastService == nil {
		return
	}
	broadcastService.Broadcast(ApprovalEvent{
		Event:       event,
		Target_Type: targetType,
		Target_ID:   targetID,
	})
}
