package service

import (
	"context"
	"errors"
	"fmt"

	"quizstorm/internal/model"
	"quizstorm/internal/repository"
)

var (
	ErrResultNotFound = errors.New("result not found")
	ErrUserNotFound   = errors.New("user not found")
)

const defaultHistoryLimit = 20

// ResultService reads finished games and player profiles
type ResultService struct {
	resultRepo repository.ResultRepo
	userRepo   repository.UserRepo
}

func NewResultService(resultRepo repository.ResultRepo, userRepo repository.UserRepo) *ResultService {
	return &ResultService{resultRepo: resultRepo, userRepo: userRepo}
}

func (s *ResultService) GetByRoom(ctx context.Context, code string) (*model.GameResult, error) {
	result, err := s.resultRepo.GetByRoomCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	if result == nil {
		return nil, ErrResultNotFound
	}
	return result, nil
}

// History lists the games userID played, newest first
func (s *ResultService) History(ctx context.Context, userID string, limit int) ([]model.GameResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	return s.resultRepo.ListByPlayer(ctx, userID, int64(limit))
}

func (s *ResultService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
