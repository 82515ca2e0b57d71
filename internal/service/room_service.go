package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizstorm/internal/cache"
	"quizstorm/internal/model"
	"quizstorm/internal/repository"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotJoinable  = errors.New("room is not accepting players")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrInvalidTimeLimit = errors.New("time limit must be one of 0, 10, 15, 20, 30")
)

// CreateRoomInput is the host's room request. Nil fields take defaults.
type CreateRoomInput struct {
	QuizID        string `json:"quizId,omitempty"`
	TimeLimit     *int   `json:"timeLimit,omitempty"`
	IsHostPlaying *bool  `json:"isHostPlaying,omitempty"`
}

// RoomService handles the persisted side of rooms and the live read models
type RoomService struct {
	roomRepo  repository.RoomRepo
	quizRepo  repository.QuizRepo
	roomCache cache.RoomCache
	lbCache   cache.LeaderboardCache
}

func NewRoomService(
	roomRepo repository.RoomRepo,
	quizRepo repository.QuizRepo,
	roomCache cache.RoomCache,
	lbCache cache.LeaderboardCache,
) *RoomService {
	return &RoomService{
		roomRepo:  roomRepo,
		quizRepo:  quizRepo,
		roomCache: roomCache,
		lbCache:   lbCache,
	}
}

// NormalizeCode upper-cases a user typed room code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom creates a waiting room owned by hostID
func (s *RoomService) CreateRoom(ctx context.Context, hostID string, in CreateRoomInput) (*model.Room, error) {
	settings := model.RoomSettings{TimeLimit: model.DefaultTimeLimit, IsHostPlaying: true}
	if in.TimeLimit != nil {
		if !model.IsAllowedTimeLimit(*in.TimeLimit) {
			return nil, ErrInvalidTimeLimit
		}
		settings.TimeLimit = *in.TimeLimit
	}
	if in.IsHostPlaying != nil {
		settings.IsHostPlaying = *in.IsHostPlaying
	}

	// Verify quiz exists
	if in.QuizID != "" {
		quiz, err := s.quizRepo.GetByID(ctx, in.QuizID)
		if err != nil {
			return nil, fmt.Errorf("failed to get quiz: %w", err)
		}
		if quiz == nil {
			return nil, ErrQuizNotFound
		}
	}

	players := []model.RosterEntry{}
	if settings.IsHostPlaying {
		players = append(players, model.RosterEntry{UserID: hostID})
	}

	for attempts := 0; attempts < 10; attempts++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		room := &model.Room{
			Code:      code,
			HostID:    hostID,
			Players:   players,
			QuizID:    in.QuizID,
			Settings:  settings,
			Status:    model.RoomWaiting,
			CreatedAt: time.Now().UTC(),
		}
		err = s.roomRepo.Create(ctx, room)
		if errors.Is(err, repository.ErrDuplicateRoomCode) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}
		return room, nil
	}

	return nil, fmt.Errorf("failed to generate unique room code")
}

// JoinRoom puts userID on the roster of a waiting room. Joining twice is fine.
func (s *RoomService) JoinRoom(ctx context.Context, code, userID string) (*model.Room, error) {
	code = NormalizeCode(code)
	room, err := s.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.HasPlayer(userID) {
		return room, nil
	}
	if room.Status != model.RoomWaiting {
		return nil, ErrRoomNotJoinable
	}

	if err := s.roomRepo.AddPlayer(ctx, code, userID); err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}
	return s.GetRoom(ctx, code)
}

func (s *RoomService) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	room, err := s.roomRepo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// LiveState returns the published meta of a room, or ErrRoomNotFound if it never went live
func (s *RoomService) LiveState(ctx context.Context, code string) (*model.LiveRoomMeta, error) {
	meta, err := s.roomCache.GetMeta(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to get live state: %w", err)
	}
	if meta == nil {
		return nil, ErrRoomNotFound
	}
	return meta, nil
}

// Leaderboard returns the last published standings of a room
func (s *RoomService) Leaderboard(ctx context.Context, code string) ([]model.Standing, error) {
	board, err := s.lbCache.GetBoard(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	if board == nil {
		return []model.Standing{}, nil
	}
	return board, nil
}

// TopStandings returns the first limit lines of the last published standings
func (s *RoomService) TopStandings(ctx context.Context, code string, limit int) ([]model.Standing, error) {
	top, err := s.lbCache.GetTop(ctx, NormalizeCode(code), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top standings: %w", err)
	}
	if top == nil {
		return []model.Standing{}, nil
	}
	return top, nil
}

// PlayerRank returns the 1-based rank of playerID on the published standings, or 0 if unranked
func (s *RoomService) PlayerRank(ctx context.Context, code, playerID string) (int, error) {
	rank, err := s.lbCache.GetRank(ctx, NormalizeCode(code), playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get rank: %w", err)
	}
	if rank < 1 {
		return 0, nil
	}
	return int(rank), nil
}

// generateRoomCode creates a 6-char code without look-alike characters
func generateRoomCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, codeLen)
	for i := range code {
		code[i] = chars[int(b[i])%len(chars)]
	}
	return string(code), nil
}
