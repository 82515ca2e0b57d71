package model

import "time"

// Standing is one ranked leaderboard line
type Standing struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

// LiveRoomMeta is the published read model of a live room
type LiveRoomMeta struct {
	Code           string     `json:"roomCode"`
	Status         RoomStatus `json:"status"`
	Phase          string     `json:"phase"`
	QuestionIndex  int        `json:"questionIndex"`
	TotalQuestions int        `json:"totalQuestions"`
	PlayerCount    int        `json:"playerCount"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
