package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaType string

const (
	MediaNone  MediaType = "none"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Question is read-only content once loaded into a live room
type Question struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text               string             `json:"questionText" bson:"questionText"`
	Options            []string           `json:"options" bson:"options"` // at least 2
	CorrectOptionIndex int                `json:"correctOptionIndex" bson:"correctOptionIndex"`
	QuizID             primitive.ObjectID `json:"quizId,omitempty" bson:"quizId,omitempty"`
	Category           string             `json:"category" bson:"category"`
	Difficulty         string             `json:"difficulty" bson:"difficulty"`
	MediaURL           string             `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	MediaType          MediaType          `json:"mediaType,omitempty" bson:"mediaType,omitempty"`
}

// Valid reports whether the question can be played
func (q *Question) Valid() bool {
	return len(q.Options) >= 2 && q.CorrectOptionIndex >= 0 && q.CorrectOptionIndex < len(q.Options)
}

// Quiz is an ordered question set authored by a user
type Quiz struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Thumbnail   string               `json:"thumbnail" bson:"thumbnail"`
	QuestionIDs []primitive.ObjectID `json:"questions" bson:"questions"`
	CreatedBy   string               `json:"createdBy" bson:"createdBy"`
	IsPublic    bool                 `json:"isPublic" bson:"isPublic"`
	Difficulty  string               `json:"difficulty" bson:"difficulty"` // easy, medium, hard, mixed
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}
