package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quizstorm/internal/game"
	"quizstorm/internal/service"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Join(ctx context.Context, cmd game.JoinCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockEngine) Start(ctx context.Context, roomCode, requesterID string) error {
	args := m.Called(ctx, roomCode, requesterID)
	return args.Error(0)
}

func (m *MockEngine) SubmitAnswer(ctx context.Context, cmd game.SubmitCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockEngine) Skip(ctx context.Context, roomCode, requesterID string) error {
	args := m.Called(ctx, roomCode, requesterID)
	return args.Error(0)
}

func (m *MockEngine) Advance(ctx context.Context, roomCode, requesterID string) error {
	args := m.Called(ctx, roomCode, requesterID)
	return args.Error(0)
}

func setupHandler(limits Limits) (*Handler, *MockEngine, *Hub) {
	engine := new(MockEngine)
	hub := NewHub(zerolog.Nop())
	h := NewHandler(hub, engine, service.NewAuthService("test-secret"), limits, zerolog.Nop())
	return h, engine, hub
}

func envelope(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	data, err := encode(msgType, payload)
	require.NoError(t, err)
	return data
}

func TestHandleMessage_Dispatch(t *testing.T) {
	h, engine, _ := setupHandler(Limits{})
	conn := newConn("ROOM1", "u1", 8)
	conn.Username = "ann"
	s := newSession(conn, h.limits)
	ctx := context.Background()

	engine.On("Join", mock.Anything, game.JoinCommand{
		RoomCode: "ROOM1", PlayerID: "u1", DisplayName: "ann", AuthUserID: "u1", ConnID: conn.ID,
	}).Return(nil)
	engine.On("Start", mock.Anything, "ROOM1", "u1").Return(nil)
	engine.On("SubmitAnswer", mock.Anything, game.SubmitCommand{
		RoomCode: "ROOM1", PlayerID: "u1", AuthUserID: "u1", OptionIndex: 2,
	}).Return(nil)
	engine.On("Skip", mock.Anything, "ROOM1", "u1").Return(nil)
	engine.On("Advance", mock.Anything, "ROOM1", "u1").Return(nil)

	h.handleMessage(ctx, s, envelope(t, MsgJoinRoom, map[string]string{"playerId": "u1"}))
	h.handleMessage(ctx, s, envelope(t, MsgStartGame, nil))
	h.handleMessage(ctx, s, envelope(t, MsgSubmitAnswer, map[string]any{"playerId": "u1", "optionIndex": 2}))
	h.handleMessage(ctx, s, envelope(t, MsgSkipCurrentQuestion, nil))
	h.handleMessage(ctx, s, envelope(t, MsgAdvancePhase, nil))

	engine.AssertExpectations(t)
	assert.True(t, s.registered)
	assert.Empty(t, conn.Send, "successful commands send no direct notice")
}

func TestHandleMessage_RejectionIsDirect(t *testing.T) {
	h, engine, _ := setupHandler(Limits{})
	conn := newConn("ROOM1", "u1", 8)
	s := newSession(conn, h.limits)

	engine.On("SubmitAnswer", mock.Anything, mock.Anything).Return(game.ErrAlreadyAnswered)
	h.handleMessage(context.Background(), s, envelope(t, MsgSubmitAnswer, map[string]any{"optionIndex": 1}))

	msg := recv(t, conn)
	assert.Equal(t, game.EventCommandRejected, msg.Type)
	var p game.CommandRejectedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	assert.Equal(t, MsgSubmitAnswer, p.Command)
	assert.Equal(t, game.ErrAlreadyAnswered.Error(), p.Reason)
}

func TestHandleMessage_MissingPrerequisiteIsError(t *testing.T) {
	h, engine, _ := setupHandler(Limits{})
	conn := newConn("ROOM1", "u1", 8)
	s := newSession(conn, h.limits)

	engine.On("Start", mock.Anything, "ROOM1", "u1").Return(game.ErrNoQuestions)
	h.handleMessage(context.Background(), s, envelope(t, MsgStartGame, nil))

	msg := recv(t, conn)
	assert.Equal(t, game.EventError, msg.Type)
	assert.JSONEq(t, `{"message":"no questions available"}`, string(msg.Payload))
}

func TestHandleMessage_BadInput(t *testing.T) {
	h, engine, _ := setupHandler(Limits{})
	conn := newConn("ROOM1", "u1", 8)
	s := newSession(conn, h.limits)
	ctx := context.Background()

	h.handleMessage(ctx, s, []byte("{not json"))
	assert.Equal(t, game.EventError, recv(t, conn).Type)

	h.handleMessage(ctx, s, envelope(t, MsgSubmitAnswer, map[string]string{"playerId": "u1"}))
	assert.Equal(t, game.EventCommandRejected, recv(t, conn).Type)

	h.handleMessage(ctx, s, envelope(t, "dance", nil))
	assert.Equal(t, game.EventError, recv(t, conn).Type)

	engine.AssertNotCalled(t, "SubmitAnswer", mock.Anything, mock.Anything)
}

func TestHandleMessage_FailedJoinUnregisters(t *testing.T) {
	h, engine, hub := setupHandler(Limits{})
	conn := newConn("ROOM1", "u1", 8)
	s := newSession(conn, h.limits)

	engine.On("Join", mock.Anything, mock.Anything).Return(game.ErrRoomNotFound)
	h.handleMessage(context.Background(), s, envelope(t, MsgJoinRoom, nil))

	assert.Equal(t, game.EventError, recv(t, conn).Type)
	assert.False(t, s.registered)
	assert.Equal(t, 0, hub.RoomSize("ROOM1"))
}

func TestHandleMessage_RateLimited(t *testing.T) {
	h, engine, _ := setupHandler(Limits{MessagesPerSecond: 0.001, Burst: 1})
	conn := newConn("ROOM1", "u1", 8)
	s := newSession(conn, h.limits)

	engine.On("Advance", mock.Anything, "ROOM1", "u1").Return(nil).Once()
	h.handleMessage(context.Background(), s, envelope(t, MsgAdvancePhase, nil))
	h.handleMessage(context.Background(), s, envelope(t, MsgAdvancePhase, nil))

	msg := recv(t, conn)
	assert.Equal(t, game.EventCommandRejected, msg.Type)
	engine.AssertNumberOfCalls(t, "Advance", 1)
}

func TestRoomWS(t *testing.T) {
	h, engine, hub := setupHandler(Limits{})
	router := mux.NewRouter()
	router.HandleFunc("/v1/ws/rooms/{code}", h.RoomWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/ws/rooms/room1")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("join round trip", func(t *testing.T) {
		token, err := service.NewAuthService("test-secret").IssueToken("u1", "ann", time.Hour)
		require.NoError(t, err)

		engine.On("Join", mock.Anything, mock.MatchedBy(func(cmd game.JoinCommand) bool {
			return cmd.RoomCode == "ROOM1" && cmd.AuthUserID == "u1" && cmd.DisplayName == "ann"
		})).Run(func(args mock.Arguments) {
			hub.BroadcastToRoom("ROOM1", game.EventPlayerJoined, game.PlayerJoinedPayload{PlayerID: "u1", DisplayName: "ann", TotalPlayers: 1})
		}).Return(nil)

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/rooms/room1?token=" + token
		client, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.WriteMessage(websocket.TextMessage, envelope(t, MsgJoinRoom, nil)))

		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		require.NoError(t, client.ReadJSON(&msg))
		assert.Equal(t, game.EventPlayerJoined, msg.Type)

		var p game.PlayerJoinedPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		assert.Equal(t, "ann", p.DisplayName)
	})
}
