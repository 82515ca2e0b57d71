package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizstorm/internal/model"
)

type ResultRepo interface {
	SaveResult(ctx context.Context, result *model.GameResult) error
	GetByRoomCode(ctx context.Context, code string) (*model.GameResult, error)
	ListByPlayer(ctx context.Context, userID string, limit int64) ([]model.GameResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("game_results"),
	}
}

func (r *resultRepo) SaveResult(ctx context.Context, result *model.GameResult) error {
	if result.ID.IsZero() {
		result.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

func (r *resultRepo) GetByRoomCode(ctx context.Context, code string) (*model.GameResult, error) {
	var result model.GameResult
	err := r.collection.FindOne(ctx, bson.M{"roomCode": code}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// ListByPlayer returns the games userID took part in, newest first
func (r *resultRepo) ListByPlayer(ctx context.Context, userID string, limit int64) ([]model.GameResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "playedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"players.userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []model.GameResult{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
