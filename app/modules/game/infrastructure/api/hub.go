package gameapi

import (
	"context"
	"log/slog"
	"time"

	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is one websocket viewer of a game.
type Client struct {
	hub    *Hub
	gameID string
	conn   *websocket.Conn
	send   chan []byte
}

type broadcast struct {
	gameID string
	data   []byte
}

// Hub keeps one room of clients per game and pushes standings updates to them.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the room map until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for c := range room {
					close(c.send)
				}
			}
			h.rooms = make(map[string]map[*Client]bool)
			return
		case c := <-h.register:
			room, ok := h.rooms[c.gameID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[c.gameID] = room
			}
			room[c] = true
		case c := <-h.unregister:
			if h.rooms[c.gameID][c] {
				h.remove(c)
			}
		case b := <-h.broadcast:
			h.deliver(b)
		}
	}
}

// deliver fans b out to its room. A viewer whose buffer is full is dropped.
func (h *Hub) deliver(b broadcast) {
	for c := range h.rooms[b.gameID] {
		select {
		case c.send <- b.data:
		default:
			h.remove(c)
		}
	}
}

// remove closes c and deletes its room once empty. Only Run calls it.
func (h *Hub) remove(c *Client) {
	room := h.rooms[c.gameID]
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.gameID)
	}
}

// Broadcast queues data for every client watching gameID.
func (h *Hub) Broadcast(gameID string, data []byte) {
	select {
	case h.broadcast <- broadcast{gameID: gameID, data: data}:
	case <-h.done:
	}
}

// Consume forwards standings updates from msgs to the matching rooms.
func (h *Hub) Consume(ctx context.Context, msgs <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			gameID := msg.Metadata.Get("game_id")
			if gameID == "" {
				h.logger.WarnContext(ctx, "Standings update without game_id",
					attr.String("message_id", msg.UUID),
					attr.Topic(gameevents.StandingsUpdatedV1),
				)
			} else {
				h.Broadcast(gameID, msg.Payload)
			}
			msg.Ack()
		}
	}
}

// Attach registers conn for gameID and starts its pumps. initial, when set,
// is the first frame the client receives.
func (h *Hub) Attach(gameID string, conn *websocket.Conn, initial []byte) {
	c := &Client{hub: h, gameID: gameID, conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		c.send <- initial
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; it exists to process pongs and closes.
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
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("Websocket read error", attr.GameID(c.gameID), attr.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
