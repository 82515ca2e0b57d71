package model

import "time"

type UserStats struct {
	Wins        int `json:"wins" bson:"wins"`
	GamesPlayed int `json:"gamesPlayed" bson:"gamesPlayed"`
	TotalPoints int `json:"totalPoints" bson:"totalPoints"`
}

// User is the profile kept by the identity service. Only username and stats are used here.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Role      string    `json:"role" bson:"role"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Stats     UserStats `json:"stats" bson:"stats"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
