package model

import "time"

type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomLive     RoomStatus = "live"
	RoomFinished RoomStatus = "finished"
)

// DefaultTimeLimit is applied when a room is created without an explicit limit
const DefaultTimeLimit = 20

// AllowedTimeLimits lists the per-question budgets a host may pick. 0 is untimed.
var AllowedTimeLimits = []int{0, 10, 15, 20, 30}

type RoomSettings struct {
	TimeLimit     int  `json:"timeLimit" bson:"timeLimit"`         // seconds, 0 = untimed
	IsHostPlaying bool `json:"isHostPlaying" bson:"isHostPlaying"` // host answers and is scored
}

// RosterEntry is a player registered on the persisted room
type RosterEntry struct {
	UserID string `json:"userId" bson:"userId"`
	Score  int    `json:"score" bson:"score"`
}

// Room is the persisted game room. Live state is held by the engine, not here.
type Room struct {
	Code                 string        `json:"roomCode" bson:"roomCode"`
	HostID               string        `json:"hostId" bson:"hostId"`
	Players              []RosterEntry `json:"players" bson:"players"`
	QuizID               string        `json:"quizId,omitempty" bson:"quizId,omitempty"`
	Settings             RoomSettings  `json:"settings" bson:"settings"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex" bson:"currentQuestionIndex"`
	Status               RoomStatus    `json:"status" bson:"status"`
	CreatedAt            time.Time     `json:"createdAt" bson:"createdAt"`
}

// HasPlayer reports whether userID is on the roster
func (r *Room) HasPlayer(userID string) bool {
	for _, p := range r.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsAllowedTimeLimit reports whether seconds is one of AllowedTimeLimits
func IsAllowedTimeLimit(seconds int) bool {
	for _, v := range AllowedTimeLimits {
		if v == seconds {
			return true
		}
	}
	return false
}
