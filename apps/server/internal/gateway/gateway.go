package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cardsight/apps/server/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents a WebSocket client connection. Detector connections
// feed frames in; observer connections receive state broadcasts.
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	Observer bool
	LastPing time.Time
}

// Gateway manages WebSocket connections and fans session state out to
// observers.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64
	session     *session.Session
}

func New(s *session.Session) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		session:     s,
	}
}

// HandleDetector accepts the camera pipeline's frame stream.
func (g *Gateway) HandleDetector(w http.ResponseWriter, r *http.Request) {
	c := g.accept(w, r, false)
	if c == nil {
		return
	}
	go c.readPump()
	go c.writePump()
}

// HandleObserver accepts a state-watching client and sends it the current
// game state immediately.
func (g *Gateway) HandleObserver(w http.ResponseWriter, r *http.Request) {
	c := g.accept(w, r, true)
	if c == nil {
		return
	}
	if state := g.session.StateJSON(); state != nil {
		c.Send <- state
	}
	go c.readPump()
	go c.writePump()
}

func (g *Gateway) accept(w http.ResponseWriter, r *http.Request, observer bool) *Connection {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return nil
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &Connection{
		ID:       connID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		Observer: observer,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	total := len(g.connections)
	g.mu.Unlock()

	role := "detector"
	if observer {
		role = "observer"
	}
	log.Printf("[Gateway] Client connected: %s (%s), total: %d", connID, role, total)
	return c
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if c.Observer {
			// Observers are write-only from our side; inbound data is ignored.
			continue
		}
		if messageType == websocket.TextMessage {
			c.handleFrame(message)
		}
	}
}

func (c *Connection) handleFrame(data []byte) {
	var frame session.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Printf("[Gateway] Failed to unmarshal frame: %v", err)
		return
	}
	c.Gateway.session.Offer(frame)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// Broadcast sends a message to every observer connection.
func (g *Gateway) Broadcast(message []byte) {
	if len(message) == 0 {
		return
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		if !c.Observer {
			continue
		}
		select {
		case c.Send <- message:
		default:
			// Drop message if buffer full
		}
	}
}
