package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"quizstorm/internal/model"
	"quizstorm/internal/service"
	"quizstorm/internal/transport/rest/middleware"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomSvc *service.RoomService
	log     zerolog.Logger
}

func NewRoomHandler(roomSvc *service.RoomService, log zerolog.Logger) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, log: log}
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetUserID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateRoomInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), hostID, req)
	if err != nil {
		h.logFailure(err, "create room")
		writeServiceError(w, err)
		return
	}

	h.log.Info().Str("room", room.Code).Str("host", hostID).Int("time_limit", room.Settings.TimeLimit).Msg("room created")
	writeJSON(w, http.StatusCreated, room)
}

// Join handles POST /v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	code := mux.Vars(r)["code"]

	room, err := h.roomSvc.JoinRoom(r.Context(), code, userID)
	if err != nil {
		h.logFailure(err, "join room")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.GetRoom(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.logFailure(err, "get room")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Live handles GET /v1/rooms/{code}/live
func (h *RoomHandler) Live(w http.ResponseWriter, r *http.Request) {
	meta, err := h.roomSvc.LiveState(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.logFailure(err, "get live state")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard[?limit=N][&playerId=ID]
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	query := r.URL.Query()

	var (
		board []model.Standing
		err   error
	)
	if raw := query.Get("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		board, err = h.roomSvc.TopStandings(r.Context(), code, limit)
	} else {
		board, err = h.roomSvc.Leaderboard(r.Context(), code)
	}
	if err != nil {
		h.logFailure(err, "get leaderboard")
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"leaderboard": board}
	if playerID := query.Get("playerId"); playerID != "" {
		rank, err := h.roomSvc.PlayerRank(r.Context(), code, playerID)
		if err != nil {
			h.logFailure(err, "get rank")
			writeServiceError(w, err)
			return
		}
		if rank > 0 {
			resp["rank"] = rank
		} else {
			resp["rank"] = nil
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *RoomHandler) logFailure(err error, action string) {
	h.log.Debug().Err(err).Str("action", action).Msg("room request failed")
}
