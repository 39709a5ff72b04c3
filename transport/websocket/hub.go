package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/EmmaPrats/Sound-Only-Game/game/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Per-client and hub queue sizes
	sendBuffer      = 256
	broadcastBuffer = 256
)

// Event names carried in Message.Event
const (
	EventSnapshot = "snapshot"
	EventTurn     = string(session.EventTurn)
	EventEnd      = string(session.EventEnd)
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectators only read; any origin may watch
		return true
	},
}

// Message is one JSON frame sent to spectators
type Message struct {
	SessionID string          `json:"session_id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Client is one spectator connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub fans session events out to the spectators of each session.
// Spectators cannot act; anything they send is discarded.
type Hub struct {
	// Registered clients by lower-cased session ID
	sessions map[string]map[*Client]bool
	mu       sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns when ctx is done, closing
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		}
	}
}

// ServeWS upgrades the request and registers the connection as a spectator
// of sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: strings.ToLower(sessionID),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Watch forwards every event of sess to its spectators until the returned
// function is called
func (h *Hub) Watch(sess *session.Session) (stop func()) {
	return sess.Subscribe(func(ev session.Event) {
		h.Publish(ev.SessionID, string(ev.Type), ev)
	})
}

// Publish queues an event for the spectators of a session. It never blocks:
// when the hub is saturated the event is dropped.
func (h *Hub) Publish(sessionID, event string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	message := &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      raw,
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("Dropping %s event for session %s: hub is saturated", event, sessionID)
	}
}

// ClientCount returns how many spectators a session has
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[strings.ToLower(sessionID)])
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Spectator joined session %s (total: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.Printf("Spectator left session %s (remaining: %d)", client.sessionID, len(clients))
}

// broadcastMessage sends a message to all clients of its session. A client
// whose queue is full is dropped.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[strings.ToLower(message.SessionID)] {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.sessions {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// readPump discards client frames and keeps the connection alive
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection, one
// JSON message per frame
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
