package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"quizstorm/internal/game"
	"quizstorm/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	commandTimeout = 5 * time.Second
)

// Inbound message types
const (
	MsgJoinRoom            = "join-room"
	MsgStartGame           = "start-game"
	MsgSubmitAnswer        = "submit-answer"
	MsgSkipCurrentQuestion = "skip-current-question"
	MsgAdvancePhase        = "advance-phase"
)

var errRateLimited = errors.New("too many messages")

// Engine is the part of the game engine the gateway drives
type Engine interface {
	Join(ctx context.Context, cmd game.JoinCommand) error
	Start(ctx context.Context, roomCode, requesterID string) error
	SubmitAnswer(ctx context.Context, cmd game.SubmitCommand) error
	Skip(ctx context.Context, roomCode, requesterID string) error
	Advance(ctx context.Context, roomCode, requesterID string) error
}

type joinPayload struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type submitPayload struct {
	PlayerID    string `json:"playerId"`
	OptionIndex *int   `json:"optionIndex"`
}

// Limits bounds how fast one connection may send
type Limits struct {
	MessagesPerSecond float64
	Burst             int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades game connections and turns their messages into engine commands
type Handler struct {
	hub     *Hub
	engine  Engine
	authSvc *service.AuthService
	limits  Limits
	log     zerolog.Logger
}

func NewHandler(hub *Hub, engine Engine, authSvc *service.AuthService, limits Limits, log zerolog.Logger) *Handler {
	if limits.MessagesPerSecond <= 0 {
		limits.MessagesPerSecond = 10
	}
	if limits.Burst <= 0 {
		limits.Burst = 20
	}
	return &Handler{
		hub:     hub,
		engine:  engine,
		authSvc: authSvc,
		limits:  limits,
		log:     log.With().Str("component", "ws").Logger(),
	}
}

// RoomWS handles GET /v1/ws/rooms/{code}?token=
func (h *Handler) RoomWS(w http.ResponseWriter, r *http.Request) {
	code := service.NormalizeCode(mux.Vars(r)["code"])
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		ID:       uuid.NewString(),
		RoomCode: code,
		UserID:   claims.UserID,
		Username: claims.Username,
		Send:     make(chan []byte, 256),
	}
	h.log.Info().Str("room", code).Str("player", conn.UserID).Str("conn", conn.ID).Msg("websocket connected")

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	session := newSession(conn, h.limits)
	defer func() {
		h.hub.Unregister(conn)
		close(conn.Send)
		wsConn.Close()
		h.log.Info().Str("room", conn.RoomCode).Str("player", conn.UserID).Str("conn", conn.ID).Msg("websocket disconnected")
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Str("conn", conn.ID).Msg("websocket read error")
			}
			break
		}
		h.handleMessage(context.Background(), session, data)
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// session is the per-connection state of the read loop
type session struct {
	conn       *Connection
	limiter    *rate.Limiter
	registered bool
}

func newSession(conn *Connection, limits Limits) *session {
	return &session{
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(limits.MessagesPerSecond), limits.Burst),
	}
}

// handleMessage runs one inbound message and answers failures on this connection only
func (h *Handler) handleMessage(ctx context.Context, s *session, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.reply(s.conn, game.EventError, game.ErrorPayload{Message: "malformed message"})
		return
	}
	if !s.limiter.Allow() {
		h.reply(s.conn, game.EventCommandRejected, game.CommandRejectedPayload{Command: msg.Type, Reason: errRateLimited.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	err := h.dispatch(ctx, s, msg)
	switch {
	case err == nil:
	case game.IsRejection(err):
		h.log.Debug().Err(err).Str("room", s.conn.RoomCode).Str("player", s.conn.UserID).Str("command", msg.Type).Msg("command rejected")
		h.reply(s.conn, game.EventCommandRejected, game.CommandRejectedPayload{Command: msg.Type, Reason: err.Error()})
	default:
		h.log.Warn().Err(err).Str("room", s.conn.RoomCode).Str("player", s.conn.UserID).Str("command", msg.Type).Msg("command failed")
		h.reply(s.conn, game.EventError, game.ErrorPayload{Message: err.Error()})
	}
}

func (h *Handler) dispatch(ctx context.Context, s *session, msg Message) error {
	conn := s.conn
	switch msg.Type {
	case MsgJoinRoom:
		var p joinPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		if p.PlayerID == "" {
			p.PlayerID = conn.UserID
		}
		if p.DisplayName == "" {
			p.DisplayName = conn.Username
		}

		// register first so the join broadcast reaches this connection
		if !s.registered {
			h.hub.Register(conn)
		}
		err := h.engine.Join(ctx, game.JoinCommand{
			RoomCode:    conn.RoomCode,
			PlayerID:    p.PlayerID,
			DisplayName: p.DisplayName,
			AuthUserID:  conn.UserID,
			ConnID:      conn.ID,
		})
		if err != nil {
			if !s.registered {
				h.hub.Unregister(conn)
			}
			return err
		}
		s.registered = true
		return nil

	case MsgStartGame:
		return h.engine.Start(ctx, conn.RoomCode, conn.UserID)

	case MsgSubmitAnswer:
		var p submitPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		if p.OptionIndex == nil {
			return game.ErrInvalidOption
		}
		if p.PlayerID == "" {
			p.PlayerID = conn.UserID
		}
		return h.engine.SubmitAnswer(ctx, game.SubmitCommand{
			RoomCode:    conn.RoomCode,
			PlayerID:    p.PlayerID,
			AuthUserID:  conn.UserID,
			OptionIndex: *p.OptionIndex,
		})

	case MsgSkipCurrentQuestion:
		return h.engine.Skip(ctx, conn.RoomCode, conn.UserID)

	case MsgAdvancePhase:
		return h.engine.Advance(ctx, conn.RoomCode, conn.UserID)

	default:
		return errors.New("unknown message type: " + msg.Type)
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.New("malformed payload")
	}
	return nil
}

// reply writes a direct notice to conn without going through the hub
func (h *Handler) reply(conn *Connection, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		return
	}
	select {
	case conn.Send <- data:
	default:
	}
}
