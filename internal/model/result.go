package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlayerResult is one line of a finished game
type PlayerResult struct {
	UserID   string `json:"userId" bson:"userId"`
	Username string `json:"username" bson:"username"`
	Score    int    `json:"score" bson:"score"`
}

// GameResult is the durable outcome of a finished room
type GameResult struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomCode string             `json:"roomCode" bson:"roomCode"`
	Players  []PlayerResult     `json:"players" bson:"players"`
	Winner   string             `json:"winner,omitempty" bson:"winner,omitempty"`
	PlayedAt time.Time          `json:"playedAt" bson:"playedAt"`
}

// StatsDelta is the aggregate update applied to one user after a game
type StatsDelta struct {
	UserID string
	Points int
	Won    bool
}
