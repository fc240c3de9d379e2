package services

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one connected owner dashboard session.
type Client struct {
	OwnerID uint
	Conn    *websocket.Conn
	Send    chan []byte
	Hub     *Hub
}

// Hub maintains the set of connected owner dashboards and routes booking
// events to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug().Uint("ownerId", client.OwnerID).Msg("dashboard connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			h.log.Debug().Uint("ownerId", client.OwnerID).Msg("dashboard disconnected")
		}
	}
}

// Event is the wire format for dashboard pushes.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SendToOwner delivers an event to every connected session of one owner.
// Slow consumers are dropped rather than blocking dispatch.
func (h *Hub) SendToOwner(ownerID uint, eventType string, data interface{}) error {
	message, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.OwnerID == ownerID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
	return nil
}

// ConnectedClients returns the number of connected dashboard sessions.
func (h *Hub) ConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades an owner dashboard connection and attaches it to
// the hub.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, ownerID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		OwnerID: ownerID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Hub:     h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection until it closes; the dashboard channel is
// push-only.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn().Err(err).Msg("websocket read error")
			}
			break
		}
	}
}

// writePump pumps events from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
