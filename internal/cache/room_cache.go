package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizstorm/internal/model"
)

// RoomCache holds the published meta of live rooms
type RoomCache interface {
	SetMeta(ctx context.Context, meta model.LiveRoomMeta) error
	GetMeta(ctx context.Context, code string) (*model.LiveRoomMeta, error)
	Delete(ctx context.Context, code string) error
}

type roomCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRoomCache(client redis.UniversalClient) RoomCache {
	return &roomCache{
		client: client,
		ttl:    24 * time.Hour, // Rooms expire after 24h
	}
}

func (c *roomCache) key(code string) string {
	return fmt.Sprintf("room:%s", code)
}

func (c *roomCache) SetMeta(ctx context.Context, meta model.LiveRoomMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(meta.Code), data, c.ttl).Err()
}

func (c *roomCache) GetMeta(ctx context.Context, code string) (*model.LiveRoomMeta, error) {
	data, err := c.client.Get(ctx, c.key(code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.LiveRoomMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *roomCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
