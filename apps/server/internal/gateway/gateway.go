package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"war-lite/apps/server/internal/auth"
	"war-lite/apps/server/internal/ledger"
	"war-lite/codec"
	"war-lite/war"
)

const (
	ErrCodeInvalidCommand = 1
	ErrCodeGameOver       = 2
	ErrCodeInternal       = 3
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection is one websocket client. Its game is only touched by readPump.
type Connection struct {
	ID       string
	PlayerID uint64 // 0 for guests
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	done   chan struct{}
	game   *war.Game
	gameID string
	seed   int64
	seq    uint64
}

// Gateway manages websocket connections, each playing its own War game.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64

	auth   auth.Service
	ledger ledger.Service
	cfg    war.Config
}

func New(authService auth.Service, ledgerService ledger.Service, cfg war.Config) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		auth:        authService,
		ledger:      ledgerService,
		cfg:         cfg,
	}
}

// ConnectionCount reports the number of open connections.
func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

// HandleWebSocket upgrades the request and starts a game for the client.
// A session token in the "token" query parameter (or the usual headers)
// ties finished games to a player.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var playerID uint64
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		token = auth.TokenFromRequest(r)
	}
	if token != "" && g.auth != nil {
		id, _, ok := g.auth.ResolveSession(token)
		if !ok {
			http.Error(w, "invalid session token", http.StatusUnauthorized)
			return
		}
		playerID = id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:       fmt.Sprintf("conn_%d", g.nextConnID),
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
		done:     make(chan struct{}),
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (playerID=%d), total: %d", c.ID, playerID, total)

	go c.writePump()
	go c.readPump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		close(c.Send)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	c.startGame(0)

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			return
		}
		c.handleCommand(string(message))
	}
}

// handleCommand runs one client command: "flip", "auto" or "new [seed]".
func (c *Connection) handleCommand(raw string) {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		c.sendError(ErrCodeInvalidCommand, "empty command")
		return
	}

	if c.game == nil && fields[0] != "new" {
		c.sendError(ErrCodeInvalidCommand, "no game in progress, send \"new\" first")
		return
	}

	switch fields[0] {
	case "flip":
		if c.game.Ended() {
			c.sendError(ErrCodeGameOver, "game over, send \"new\" to start again")
			return
		}
		rd, err := c.game.PlayRound()
		if err != nil {
			c.sendError(ErrCodeInternal, err.Error())
			return
		}
		c.send(codec.TypeRound, codec.RoundPayload(rd))
		if rd.GameOver {
			c.finishGame()
		}
	case "auto":
		if c.game.Ended() {
			c.sendError(ErrCodeGameOver, "game over, send \"new\" to start again")
			return
		}
		if _, err := c.game.PlayToEnd(func(rd war.Round) {
			c.send(codec.TypeRound, codec.RoundPayload(rd))
		}); err != nil {
			c.sendError(ErrCodeInternal, err.Error())
			return
		}
		c.finishGame()
	case "new":
		var seed int64
		if len(fields) > 1 {
			n, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				c.sendError(ErrCodeInvalidCommand, "invalid seed")
				return
			}
			seed = n
		}
		c.startGame(seed)
	default:
		c.sendError(ErrCodeInvalidCommand, fmt.Sprintf("unknown command %q", fields[0]))
	}
}

func (c *Connection) startGame(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := c.Gateway.cfg
	cfg.Seed = seed
	game, err := war.NewGame(cfg)
	if err != nil {
		c.sendError(ErrCodeInternal, err.Error())
		return
	}
	c.game = game
	c.gameID = uuid.NewString()
	c.seed = seed
	c.seq = 0

	payload := codec.GameStartPayload(game.Snapshot())
	payload["seed"] = strconv.FormatInt(seed, 10)
	c.send(codec.TypeGameStart, payload)
}

// finishGame records the result for signed-in players, then announces it.
func (c *Connection) finishGame() {
	res := c.game.Result()
	if c.PlayerID != 0 && c.Gateway.ledger != nil {
		outcome := ledger.OutcomeDraw
		switch res.Winner {
		case war.SideA:
			outcome = ledger.OutcomeWin
		case war.SideB:
			outcome = ledger.OutcomeLoss
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.Gateway.ledger.RecordGame(ctx, ledger.GameRecord{
			GameID:   c.gameID,
			PlayerID: c.PlayerID,
			Outcome:  outcome,
			Rounds:   res.Rounds,
			Wars:     res.Wars,
			PlayedAt: time.Now().UTC(),
			Summary: map[string]any{
				"seed":   strconv.FormatInt(c.seed, 10),
				"winner": res.Winner.String(),
			},
		})
		cancel()
		if err != nil {
			log.Printf("[Gateway] record game %s for player %d failed: %v", c.gameID, c.PlayerID, err)
		}
	}
	c.send(codec.TypeGameEnd, codec.GameEndPayload(res))
}

func (c *Connection) send(msgType string, payload map[string]any) {
	c.seq++
	data, err := codec.Encode(codec.Envelope{
		GameID:     c.gameID,
		Seq:        c.seq,
		Type:       msgType,
		ServerTsMs: time.Now().UnixMilli(),
		Payload:    payload,
	})
	if err != nil {
		log.Printf("[Gateway] encode %s failed: %v", msgType, err)
		return
	}
	select {
	case c.Send <- data:
	case <-c.done:
	}
}

func (c *Connection) sendError(code int, msg string) {
	c.send(codec.TypeError, codec.ErrorPayload(code, msg))
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		close(c.done)
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

			if err := c.Conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
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
