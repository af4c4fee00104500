package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message kinds sent to WebSocket clients.
const (
	MessageEvent     = "event"
	MessageDashboard = "dashboard"
)

// Message is the JSON frame written to clients. Event holds the
// wire envelope produced by event.Encode.
type Message struct {
	Type      string          `json:"type"`
	Event     json.RawMessage `json:"event,omitempty"`
	Dashboard *DashboardData  `json:"dashboard,omitempty"`
}

type client struct {
	b    *Broadcaster
	conn *websocket.Conn
	send chan []byte
}

// Broadcaster streams published events to WebSocket clients. It
// is an event.Handler and never blocks the publisher: a client
// whose send buffer is full is disconnected.
type Broadcaster struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	dashboard *DashboardData
	logger    logging.Logger
}

// NewBroadcaster creates a broadcaster. dashboard may be nil; when
// set, it is updated from every event and sent to new clients.
func NewBroadcaster(
	dashboard *DashboardData,
	logger logging.Logger,
) *Broadcaster {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	return &Broadcaster{
		clients:   make(map[*client]struct{}),
		dashboard: dashboard,
		logger:    logger,
	}
}

// Handle encodes the event and queues it for every client.
func (b *Broadcaster) Handle(e event.Event) error {
	if b.dashboard != nil {
		b.dashboard.UpdateFromEvent(e)
	}
	raw, err := event.Encode(e)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Message{Type: MessageEvent, Event: raw})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			b.logger.Warn("dropping slow websocket client",
				logging.EventField(string(e.EventType())))
			b.removeLocked(c)
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// ServeHTTP upgrades the request and registers the client.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", logging.ErrorField(err))
		return
	}
	c := &client{
		b:    b,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if b.dashboard != nil {
		snap := b.dashboard.Snapshot()
		if data, err := json.Marshal(Message{
			Type: MessageDashboard, Dashboard: &snap,
		}); err == nil {
			c.send <- data
		}
	}

	b.mu.Lock()
	b.clients[c] = struct{}{}
	n := len(b.clients)
	b.mu.Unlock()
	b.logger.Debug("websocket client connected",
		logging.IntField("clients", n))

	go c.writePump()
	go c.readPump()
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		b.removeLocked(c)
	}
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(c)
}

func (b *Broadcaster) removeLocked(c *client) {
	if _, ok := b.clients[c]; !ok {
		return
	}
	delete(b.clients, c)
	close(c.send)
}

func (c *client) readPump() {
	defer func() {
		c.b.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.b.logger.Warn("websocket read failed",
					logging.ErrorField(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(
				websocket.TextMessage, message,
			); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(
				websocket.PingMessage, nil,
			); err != nil {
				return
			}
		}
	}
}
