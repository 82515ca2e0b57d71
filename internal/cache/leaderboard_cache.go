package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizstorm/internal/model"
)

// LeaderboardCache keeps the last published standings of a room.
// The full board is stored as JSON next to a ZSET used for top-N and rank lookups.
type LeaderboardCache interface {
	Publish(ctx context.Context, roomCode string, board []model.Standing) error
	GetBoard(ctx context.Context, roomCode string) ([]model.Standing, error)
	GetTop(ctx context.Context, roomCode string, limit int) ([]model.Standing, error)
	GetRank(ctx context.Context, roomCode, playerID string) (int64, error)
}

// slotsPerPoint spreads each point over enough ZSET slots to keep published
// order between equal scores. Boards never come close to this many players.
const slotsPerPoint = 1_000_000

type leaderboardCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewLeaderboardCache(client redis.UniversalClient) LeaderboardCache {
	return &leaderboardCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *leaderboardCache) key(roomCode string) string {
	return fmt.Sprintf("room:%s:lb", roomCode)
}

func (c *leaderboardCache) boardKey(roomCode string) string {
	return fmt.Sprintf("room:%s:lb:board", roomCode)
}

func (c *leaderboardCache) namesKey(roomCode string) string {
	return fmt.Sprintf("room:%s:lb:names", roomCode)
}

// zscore orders by score, then by position on the board
func zscore(score, position int) float64 {
	return float64(score)*slotsPerPoint + float64(slotsPerPoint-1-position)
}

// Publish replaces the stored standings in one round trip
func (c *leaderboardCache) Publish(ctx context.Context, roomCode string, board []model.Standing) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}

	members := make([]redis.Z, len(board))
	names := make(map[string]interface{}, len(board))
	for i, s := range board {
		members[i] = redis.Z{Score: zscore(s.Score, i), Member: s.PlayerID}
		names[s.PlayerID] = s.DisplayName
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.boardKey(roomCode), data, c.ttl)
		pipe.Del(ctx, c.key(roomCode), c.namesKey(roomCode))
		if len(members) > 0 {
			pipe.ZAdd(ctx, c.key(roomCode), members...)
			pipe.HSet(ctx, c.namesKey(roomCode), names)
			pipe.Expire(ctx, c.key(roomCode), c.ttl)
			pipe.Expire(ctx, c.namesKey(roomCode), c.ttl)
		}
		return nil
	})
	return err
}

// GetBoard returns the board in published order, or nil if nothing was published
func (c *leaderboardCache) GetBoard(ctx context.Context, roomCode string) ([]model.Standing, error) {
	data, err := c.client.Get(ctx, c.boardKey(roomCode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var board []model.Standing
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// GetTop returns the first limit standings in published order
func (c *leaderboardCache) GetTop(ctx context.Context, roomCode string, limit int) ([]model.Standing, error) {
	if limit <= 0 {
		return []model.Standing{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(roomCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []model.Standing{}, nil
	}

	ids := make([]string, len(results))
	for i, z := range results {
		ids[i] = z.Member.(string)
	}
	names, err := c.client.HMGet(ctx, c.namesKey(roomCode), ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.Standing, len(results))
	for i, z := range results {
		name, _ := names[i].(string)
		entries[i] = model.Standing{
			PlayerID:    ids[i],
			DisplayName: name,
			Score:       int(z.Score) / slotsPerPoint,
			Rank:        i + 1,
		}
	}
	return entries, nil
}

// GetRank returns the 1-based rank of playerID, or -1 if they are not on the board
func (c *leaderboardCache) GetRank(ctx context.Context, roomCode, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(roomCode), playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}
