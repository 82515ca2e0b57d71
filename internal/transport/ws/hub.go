package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Message is the WebSocket envelope format, in both directions
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans room events out to connections. It never blocks the sender:
// a full hub queue or a full connection buffer drops the message.
type Hub struct {
	// roomCode -> userID -> conn
	rooms map[string]map[string]*Connection
	mu    sync.RWMutex

	register   chan registration
	unregister chan registration
	broadcast  chan *outbound

	log zerolog.Logger
}

// Connection is one authenticated socket. Send is owned by the connection's
// read loop, which closes it after unregistering.
type Connection struct {
	ID       string
	RoomCode string
	UserID   string
	Username string
	Send     chan []byte
}

// registration is a register or unregister request. The run loop closes done once the room map reflects it.
type registration struct {
	conn *Connection
	done chan struct{}
}

type outbound struct {
	roomCode string
	playerID string // empty for the whole room
	data     []byte
}

func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		rooms:      make(map[string]map[string]*Connection),
		register:   make(chan registration),
		unregister: make(chan registration),
		broadcast:  make(chan *outbound, 1024),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case reg := <-h.register:
			conn := reg.conn
			h.mu.Lock()
			if h.rooms[conn.RoomCode] == nil {
				h.rooms[conn.RoomCode] = make(map[string]*Connection)
			}
			if prev, ok := h.rooms[conn.RoomCode][conn.UserID]; ok && prev != conn {
				h.log.Debug().Str("room", conn.RoomCode).Str("player", conn.UserID).Str("replaced", prev.ID).Msg("connection replaced")
			}
			h.rooms[conn.RoomCode][conn.UserID] = conn
			h.mu.Unlock()
			close(reg.done)
			h.log.Debug().Str("room", conn.RoomCode).Str("player", conn.UserID).Str("conn", conn.ID).Msg("connection registered")

		case reg := <-h.unregister:
			conn := reg.conn
			h.mu.Lock()
			if players, ok := h.rooms[conn.RoomCode]; ok {
				if existing, ok := players[conn.UserID]; ok && existing == conn {
					delete(players, conn.UserID)
					if len(players) == 0 {
						delete(h.rooms, conn.RoomCode)
					}
				}
			}
			h.mu.Unlock()
			close(reg.done)

		case msg := <-h.broadcast:
			h.mu.RLock()
			players := h.rooms[msg.roomCode]
			if msg.playerID != "" {
				if conn, ok := players[msg.playerID]; ok {
					h.deliver(conn, msg.data)
				}
			} else {
				for _, conn := range players {
					h.deliver(conn, msg.data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) deliver(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
		h.log.Warn().Str("room", conn.RoomCode).Str("player", conn.UserID).Msg("connection buffer full, dropping message")
	}
}

// Register routes room events to conn. A newer connection of the same user replaces the old one.
// It returns once conn is in the room map.
func (h *Hub) Register(conn *Connection) {
	reg := registration{conn: conn, done: make(chan struct{})}
	h.register <- reg
	<-reg.done
}

// Unregister stops routing to conn. Once it returns the hub no longer writes to conn.Send.
func (h *Hub) Unregister(conn *Connection) {
	reg := registration{conn: conn, done: make(chan struct{})}
	h.unregister <- reg
	<-reg.done
}

// BroadcastToRoom sends an event to every connection of the room (implements game.Broadcaster)
func (h *Hub) BroadcastToRoom(roomCode, event string, payload any) {
	h.enqueue(roomCode, "", event, payload)
}

// SendToPlayer sends an event to one player's connection (implements game.Broadcaster)
func (h *Hub) SendToPlayer(roomCode, playerID, event string, payload any) {
	h.enqueue(roomCode, playerID, event, payload)
}

func (h *Hub) enqueue(roomCode, playerID, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}
	select {
	case h.broadcast <- &outbound{roomCode: roomCode, playerID: playerID, data: data}:
	default:
		h.log.Warn().Str("room", roomCode).Str("event", event).Msg("hub queue full, dropping event")
	}
}

// RoomSize is the number of registered connections in a room
func (h *Hub) RoomSize(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: event, Payload: data})
}
