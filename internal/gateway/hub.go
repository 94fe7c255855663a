// Package gateway is the WebSocket edge: it owns connections, decodes
// client commands into engine calls, and fans engine broadcasts out to
// every client. One connection maps to one session id; the engine binds
// players to sessions.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bullvbear/match-engine/internal/metrics"
	"github.com/bullvbear/match-engine/internal/model"
	"github.com/bullvbear/match-engine/internal/trading"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096

	// emptyLobbyGrace is how long the hub waits after the last client
	// disconnects before resetting the match. Long enough for a page
	// refresh to reclaim a running game.
	emptyLobbyGrace = 60 * time.Second
)

// Engine is the subset of match-engine operations the gateway dispatches
// client commands to.
type Engine interface {
	Join(sessionID, name string)
	Leave(sessionID string)
	SelectAvatar(sessionID, avatarID string)
	SelectStrategy(sessionID, strategyID string)
	Buy(sessionID, assetID string, quantity float64) trading.Result
	Sell(sessionID, assetID string, quantity float64) trading.Result
	UsePowerUp(sessionID, powerUpID string)
	PlayAgain()
	Reset(preservePlayers bool)
}

// envelope is the wire frame in both directions: a type tag and a raw
// payload.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	Name string `json:"name"`
}

type selectPayload struct {
	ID string `json:"id"`
}

type orderPayload struct {
	AssetID  string  `json:"assetId"`
	Quantity float64 `json:"quantity"`
}

type powerUpPayload struct {
	ID string `json:"id"`
}

// client is one connected socket with its outbound queue.
type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub manages WebSocket connections and implements the engine's
// Broadcaster.
type Hub struct {
	engine Engine
	logger *slog.Logger

	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex

	// lastState replays the most recent snapshot to clients that connect
	// between broadcasts.
	lastState []byte

	resetTimer *time.Timer
}

// NewHub creates a hub. Bind must be called before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Bind attaches the engine. Separate from construction because the engine
// itself needs the hub as its broadcaster.
func (h *Hub) Bind(engine Engine) {
	h.engine = engine
}

// Run starts the hub's main event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			if h.resetTimer != nil {
				h.resetTimer.Stop()
				h.resetTimer = nil
			}
			if h.lastState != nil {
				select {
				case c.send <- h.lastState:
				default:
				}
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.ConnectedClients.Set(float64(total))
			h.logger.Info("ws client connected", "session", c.sessionID, "total", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			if total == 0 && h.resetTimer == nil {
				h.resetTimer = time.AfterFunc(emptyLobbyGrace, h.resetIfStillEmpty)
			}
			h.mu.Unlock()
			metrics.ConnectedClients.Set(float64(total))
			h.engine.Leave(c.sessionID)
			h.logger.Info("ws client disconnected", "session", c.sessionID, "total", total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer: drop the frame rather than stall the
					// whole fan-out. The next snapshot supersedes it.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// resetIfStillEmpty tears the match down once the lobby has stayed empty
// through the grace window.
func (h *Hub) resetIfStillEmpty() {
	h.mu.Lock()
	empty := len(h.clients) == 0
	h.resetTimer = nil
	h.mu.Unlock()
	if empty {
		h.logger.Info("lobby empty past grace window, resetting match")
		h.engine.Reset(false)
	}
}

// BroadcastState implements match.Broadcaster. Called with the engine lock
// held: the snapshot is serialized here, synchronously, so later engine
// mutations cannot race the encoder.
func (h *Hub) BroadcastState(state *model.GameState) {
	h.enqueue("gameState", state)
}

// BroadcastResults implements match.Broadcaster.
func (h *Hub) BroadcastResults(results []model.MatchResult) {
	h.enqueue("matchResults", results)
}

func (h *Hub) enqueue(msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("broadcast marshal failed", "type", msgType, "error", err)
		return
	}
	frame, err := json.Marshal(envelope{Type: msgType, Payload: raw})
	if err != nil {
		return
	}

	if msgType == "gameState" {
		h.mu.Lock()
		h.lastState = frame
		h.mu.Unlock()
	}

	select {
	case h.broadcast <- frame:
	default:
		// Buffer full: drop rather than block the engine tick.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true // Allow all origins during development.
	},
}

// HandleWS upgrades GET /api/v1/ws and runs the connection's pumps.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}

	c := &client{
		sessionID: uuid.New().String(),
		conn:      conn,
		send:      make(chan []byte, 64),
	}
	h.register <- c

	go c.writePump()
	go h.readPump(c)
}

// readPump decodes inbound frames and dispatches them to the engine.
// Malformed frames are logged and skipped; the connection stays up.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.logger.Warn("malformed ws frame", "session", c.sessionID, "error", err)
			continue
		}
		h.dispatch(c, env)
	}
}

func (h *Hub) dispatch(c *client, env envelope) {
	switch env.Type {
	case "join":
		var p joinPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			h.engine.Join(c.sessionID, p.Name)
		}
	case "selectAvatar":
		var p selectPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			h.engine.SelectAvatar(c.sessionID, p.ID)
		}
	case "selectStrategy":
		var p selectPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			h.engine.SelectStrategy(c.sessionID, p.ID)
		}
	case "buy":
		var p orderPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			h.engine.Buy(c.sessionID, p.AssetID, p.Quantity)
		}
	case "sell":
		var p orderPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			h.engine.Sell(c.sessionID, p.AssetID, p.Quantity)
		}
	case "usePowerUp":
		var p powerUpPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			h.engine.UsePowerUp(c.sessionID, p.ID)
		}
	case "playAgain":
		h.engine.PlayAgain()
	default:
		h.logger.Warn("unknown ws command", "session", c.sessionID, "type", env.Type)
	}
}

// writePump drains the client's send queue and keeps the connection alive
// through proxies with periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
