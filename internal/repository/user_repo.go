package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizstorm/internal/model"
)

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
	ApplyGameStats(ctx context.Context, deltas []model.StatsDelta) error
}

type userRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		collection: db.Collection("users"),
	}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, opts)
	return err
}

// DisplayNames maps user ids to usernames. Unknown ids are left out.
func (r *userRepo) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var u struct {
			ID       string `bson:"_id"`
			Username string `bson:"username"`
		}
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		names[u.ID] = u.Username
	}
	return names, cursor.Err()
}

// ApplyGameStats adds one finished game to every player's lifetime stats in a single bulk write
func (r *userRepo) ApplyGameStats(ctx context.Context, deltas []model.StatsDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(deltas))
	for _, d := range deltas {
		inc := bson.M{
			"stats.gamesPlayed": 1,
			"stats.totalPoints": d.Points,
		}
		if d.Won {
			inc["stats.wins"] = 1
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": d.UserID}).
			SetUpdate(bson.M{"$inc": inc}))
	}

	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
