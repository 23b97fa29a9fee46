package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/domination/game/match"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Route commands carry whole
	// movement lists, so this is larger than a plain keepalive needs.
	maxMessageSize = 8192

	// Event sent with full match snapshots.
	EventState = "state_update"

	// Event sent back to a single client whose command failed.
	EventError = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is the envelope of every outbound frame
type Message struct {
	MatchID string       `json:"match_id"`
	Event   string       `json:"event"`
	State   *match.State `json:"state,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
}

// Client is one WebSocket connection subscribed to a match
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by match ID
	matches map[string]map[*Client]bool
	mu      sync.RWMutex

	// Handler for inbound commands; nil means frames are only logged
	commands CommandHandler

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}
}

// NewHub creates a new WebSocket hub. commands may be nil.
func NewHub(commands CommandHandler) *Hub {
	return &Hub{
		matches:    make(map[string]map[*Client]bool),
		commands:   commands,
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to a match
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, matchID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		matchID: matchID,
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

// BroadcastState queues a snapshot for every client of the match
func (h *Hub) BroadcastState(matchID string, state *match.State) {
	h.enqueue(&Message{
		MatchID: matchID,
		Event:   EventState,
		State:   state,
	})
}

// BroadcastEvent queues a custom event for every client of the match
func (h *Hub) BroadcastEvent(matchID string, event string, data interface{}) {
	h.enqueue(&Message{
		MatchID: matchID,
		Event:   event,
		Data:    data,
	})
}

// ClientCount returns the number of clients subscribed to a match
func (h *Hub) ClientCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches[matchID])
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Warn().Str("matchId", message.MatchID).Str("event", message.Event).Msg("Broadcast queue full, dropping message")
	}
}

// registerClient adds a client to a match
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.matches[client.matchID] == nil {
		h.matches[client.matchID] = make(map[*Client]bool)
	}
	h.matches[client.matchID][client] = true

	log.Debug().
		Str("matchId", client.matchID).
		Int("clients", len(h.matches[client.matchID])).
		Msg("Client registered")
}

// unregisterClient removes a client from a match
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.matches[client.matchID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)

	// Clean up empty matches
	if len(clients) == 0 {
		delete(h.matches, client.matchID)
	}

	log.Debug().
		Str("matchId", client.matchID).
		Int("remaining", len(clients)).
		Msg("Client unregistered")
}

// broadcastMessage sends a message to all clients of a match
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal broadcast message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.matches[message.MatchID] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.matches {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// reply sends a message to one client only
func (c *Client) reply(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal reply")
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.matches[c.matchID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump logs inbound frames and dispatches recognized commands
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
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("matchId", c.matchID).Msg("WebSocket error")
			}
			break
		}

		log.Info().Str("matchId", c.matchID).Bytes("frame", data).Msg("WebSocket frame received")
		c.handleFrame(data)
	}
}

func (c *Client) handleFrame(data []byte) {
	if c.hub.commands == nil {
		return
	}

	cmd, err := ParseCommand(data)
	if err != nil {
		log.Debug().Err(err).Str("matchId", c.matchID).Msg("Ignoring WebSocket frame")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	result, err := c.hub.commands.Execute(ctx, c.matchID, cmd)
	if err != nil {
		log.Warn().Err(err).Str("matchId", c.matchID).Str("type", cmd.Type).Msg("WebSocket command failed")
		c.reply(&Message{
			MatchID: c.matchID,
			Event:   EventError,
			Data:    map[string]string{"type": cmd.Type, "error": err.Error()},
		})
		return
	}

	c.hub.BroadcastEvent(c.matchID, result.Event, result.Data)
	if result.State != nil {
		c.hub.BroadcastState(c.matchID, result.State)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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
