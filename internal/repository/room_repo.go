package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizstorm/internal/model"
)

var ErrDuplicateRoomCode = errors.New("room code already exists")

type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByCode(ctx context.Context, code string) (*model.Room, error)
	AddPlayer(ctx context.Context, code, userID string) error
	UpdateStatus(ctx context.Context, code string, status model.RoomStatus, questionIndex int) error
	EnsureIndexes(ctx context.Context) error
}

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{
		collection: db.Collection("rooms"),
	}
}

func (r *roomRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "roomCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	_, err := r.collection.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateRoomCode
	}
	return err
}

func (r *roomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"roomCode": code}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Room not found
		}
		return nil, err
	}

	return &room, nil
}

// AddPlayer appends userID to the roster of a waiting room. Already present is not an error.
func (r *roomRepo) AddPlayer(ctx context.Context, code, userID string) error {
	filter := bson.M{
		"roomCode":       code,
		"status":         model.RoomWaiting,
		"players.userId": bson.M{"$ne": userID},
	}
	update := bson.M{"$push": bson.M{"players": model.RosterEntry{UserID: userID}}}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *roomRepo) UpdateStatus(ctx context.Context, code string, status model.RoomStatus, questionIndex int) error {
	update := bson.M{"$set": bson.M{
		"status":               status,
		"currentQuestionIndex": questionIndex,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"roomCode": code}, update)
	return err
}
