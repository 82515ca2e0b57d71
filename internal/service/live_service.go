package service

import (
	"context"

	"quizstorm/internal/cache"
	"quizstorm/internal/model"
)

// LiveService mirrors engine state into Redis for the REST read endpoints
type LiveService struct {
	roomCache cache.RoomCache
	lbCache   cache.LeaderboardCache
}

func NewLiveService(roomCache cache.RoomCache, lbCache cache.LeaderboardCache) *LiveService {
	return &LiveService{roomCache: roomCache, lbCache: lbCache}
}

func (s *LiveService) PublishRoom(ctx context.Context, meta model.LiveRoomMeta) error {
	return s.roomCache.SetMeta(ctx, meta)
}

func (s *LiveService) PublishStandings(ctx context.Context, roomCode string, board []model.Standing) error {
	return s.lbCache.Publish(ctx, roomCode, board)
}
