// Package server exposes game engines to clients: a WebSocket transport
// carrying JSON messages and a gRPC server for health probing.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/config"
	"github.com/watergate-game/watergate-server-go/internal/game"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// WSMessage is the envelope of every server to client message.
type WSMessage struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}

// inboundMessage keeps the payload raw until the handler knows its shape.
type inboundMessage struct {
	Type     string          `json:"type"`
	GameID   string          `json:"game_id,omitempty"`
	PlayerID string          `json:"player_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Client is one WebSocket connection bound to at most one game seat.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	mu       sync.RWMutex
	gameID   string
	playerID string
}

func (c *Client) bind(gameID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
	c.playerID = playerID
}

func (c *Client) identity() (gameID, playerID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID, c.playerID
}

// HubOptions tunes a Hub.
type HubOptions struct {
	// StepInterval is the delay between animation ticks of a move. Zero
	// applies moves at once.
	StepInterval time.Duration
	DevTools     *DevTools
}

// Hub tracks connected clients and routes their messages to the game
// manager.
type Hub struct {
	manager  *game.Manager
	devtools *DevTools
	interval time.Duration
	logger   *zap.Logger

	clients    map[*Client]bool
	unregister chan *Client
	mu         sync.RWMutex

	// ctx is cancelled under mu; work is only added to the wait groups
	// under mu while ctx is live.
	ctx        context.Context
	cancel     context.CancelFunc
	pumps      sync.WaitGroup
	animations sync.WaitGroup
}

// NewHub creates a hub. Call Run to process client departures.
func NewHub(manager *game.Manager, opts HubOptions, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		manager:    manager,
		devtools:   opts.DevTools,
		interval:   opts.StepInterval,
		logger:     logger,
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes client departures until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			gameID, playerID := client.identity()
			h.debug("client unregistered", zap.String("game_id", gameID), zap.String("player_id", playerID))
		}
	}
}

// register adds client and reserves its two pumps. It fails once the hub
// is closed.
func (h *Hub) register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return false
	}
	h.clients[client] = true
	h.pumps.Add(2)
	h.debug("client registered", zap.String("remote", client.conn.RemoteAddr().String()))
	return true
}

// track reserves a slot in wg unless the hub is closed.
func (h *Hub) track(wg *sync.WaitGroup) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return false
	}
	wg.Add(1)
	return true
}

// Close stops the hub, disconnects every client and waits for their pumps
// and for running animations to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	h.cancel()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
		client.conn.Close()
	}
	h.mu.Unlock()

	h.pumps.Wait()
	h.animations.Wait()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastState sends every seated client of a game its own view.
func (h *Hub) broadcastState(gameID string) {
	engine, err := h.manager.Get(gameID)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		clientGame, playerID := client.identity()
		if clientGame != gameID {
			continue
		}
		view, err := engine.View(playerID)
		if err != nil {
			continue
		}
		h.deliver(client, WSMessage{Type: "game_state", GameID: gameID, PlayerID: playerID, Data: view})
	}
}

// broadcast sends the same message to every client of a game.
func (h *Hub) broadcast(gameID string, msg WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if clientGame, _ := client.identity(); clientGame == gameID {
			h.deliver(client, msg)
		}
	}
}

// sendState sends one client its own view of its game.
func (h *Hub) sendState(client *Client) error {
	gameID, playerID := client.identity()
	engine, err := h.manager.Get(gameID)
	if err != nil {
		return err
	}
	view, err := engine.View(playerID)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client] {
		h.deliver(client, WSMessage{Type: "game_state", GameID: gameID, PlayerID: playerID, Data: view})
	}
	return nil
}

func (h *Hub) sendError(client *Client, err error) {
	gameID, playerID := client.identity()
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client] {
		h.deliver(client, WSMessage{Type: "error", GameID: gameID, PlayerID: playerID, Error: err.Error()})
	}
}

// deliver queues msg without blocking. The caller holds h.mu.
func (h *Hub) deliver(client *Client, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode message", zap.String("type", msg.Type), zap.Error(err))
		}
		return
	}
	select {
	case client.send <- payload:
	default:
		if h.logger != nil {
			h.logger.Warn("client send buffer full, dropping message",
				zap.String("type", msg.Type),
				zap.String("game_id", msg.GameID),
			)
		}
	}
}

func (h *Hub) debug(msg string, fields ...zap.Field) {
	if h.logger != nil {
		h.logger.Debug(msg, fields...)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.ctx.Done():
		}
		c.conn.Close()
		h.pumps.Done()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if h.ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && h.logger != nil {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(c, fmt.Errorf("decode message: %w", err))
			continue
		}

		if err := h.handleMessage(c, msg); err != nil {
			h.sendError(c, err)
		}
	}
}

func (c *Client) writePump(h *Hub, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		h.pumps.Done()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WebSocketServer serves the /ws endpoint.
type WebSocketServer struct {
	hub      *Hub
	upgrader websocket.Upgrader
	cfg      config.WebSocketConfig
	http     *http.Server
	logger   *zap.Logger
}

// NewWebSocketServer wires the upgrader from configuration.
func NewWebSocketServer(cfg config.WebSocketConfig, hub *Hub, logger *zap.Logger) *WebSocketServer {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	s := &WebSocketServer{
		hub:    hub,
		cfg:    cfg,
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes of the transport.
func (s *WebSocketServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Serve accepts connections on lis until Shutdown.
func (s *WebSocketServer) Serve(lis net.Listener) error {
	if err := s.http.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve websocket: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections.
func (s *WebSocketServer) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *WebSocketServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, "*") || slices.Contains(s.cfg.AllowedOrigins, origin)
}

func (s *WebSocketServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		}
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	if !s.hub.register(client) {
		conn.Close()
		return
	}

	go client.writePump(s.hub, s.cfg.WriteTimeout)
	go client.readPump(s.hub)
}
