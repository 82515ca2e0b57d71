package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizstorm/internal/model"
	"quizstorm/internal/service"
)

// staticBoard serves one published board the way the Redis cache does
type staticBoard struct {
	board []model.Standing
}

func (b *staticBoard) Publish(ctx context.Context, roomCode string, board []model.Standing) error {
	b.board = board
	return nil
}

func (b *staticBoard) GetBoard(ctx context.Context, roomCode string) ([]model.Standing, error) {
	return b.board, nil
}

func (b *staticBoard) GetTop(ctx context.Context, roomCode string, limit int) ([]model.Standing, error) {
	if limit > len(b.board) {
		limit = len(b.board)
	}
	return b.board[:limit], nil
}

func (b *staticBoard) GetRank(ctx context.Context, roomCode, playerID string) (int64, error) {
	for i, s := range b.board {
		if s.PlayerID == playerID {
			return int64(i + 1), nil
		}
	}
	return -1, nil
}

func leaderboardRouter() http.Handler {
	board := &staticBoard{board: []model.Standing{
		{PlayerID: "a", DisplayName: "Ann", Score: 1200, Rank: 1},
		{PlayerID: "b", DisplayName: "Ben", Score: 1200, Rank: 2},
		{PlayerID: "c", DisplayName: "Cat", Score: 900, Rank: 3},
	}}
	h := NewRoomHandler(service.NewRoomService(nil, nil, nil, board), zerolog.Nop())

	r := mux.NewRouter()
	r.HandleFunc("/v1/rooms/{code}/leaderboard", h.Leaderboard)
	return r
}

type leaderboardResponse struct {
	Leaderboard []model.Standing `json:"leaderboard"`
	Rank        *int             `json:"rank"`
}

func getLeaderboard(t *testing.T, query string) (*httptest.ResponseRecorder, leaderboardResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	leaderboardRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/QZ7K2M/leaderboard"+query, nil))

	var body leaderboardResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestRoomHandler_Leaderboard(t *testing.T) {
	rec, body := getLeaderboard(t, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Leaderboard, 3)
	assert.NotContains(t, rec.Body.String(), `"rank"`)

	rec, body = getLeaderboard(t, "?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Leaderboard, 2)
	assert.Equal(t, "a", body.Leaderboard[0].PlayerID)
	assert.Equal(t, "b", body.Leaderboard[1].PlayerID)

	rec, body = getLeaderboard(t, "?limit=1&playerId=c")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Leaderboard, 1)
	require.NotNil(t, body.Rank)
	assert.Equal(t, 3, *body.Rank)

	rec, body = getLeaderboard(t, "?playerId=ghost")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body.Rank)
	assert.Contains(t, rec.Body.String(), `"rank":null`)
}

func TestRoomHandler_LeaderboardBadLimit(t *testing.T) {
	for _, q := range []string{"?limit=0", "?limit=-3", "?limit=ten"} {
		rec, _ := getLeaderboard(t, q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
