package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quizstorm/internal/model"
)

type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	CreateMany(ctx context.Context, questions []model.Question) ([]primitive.ObjectID, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Question, error)
	Sample(ctx context.Context, size int) ([]model.Question, error)
	Count(ctx context.Context) (int64, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	// Generate ObjectID if not provided
	if question.ID.IsZero() {
		question.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) CreateMany(ctx context.Context, questions []model.Question) ([]primitive.ObjectID, error) {
	docs := make([]interface{}, len(questions))
	ids := make([]primitive.ObjectID, len(questions))
	for i := range questions {
		if questions[i].ID.IsZero() {
			questions[i].ID = primitive.NewObjectID()
		}
		ids[i] = questions[i].ID
		docs[i] = questions[i]
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByIDs returns the questions in the order of ids. Missing ids are skipped.
func (r *questionRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []model.Question
	if err = cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	// $in does not keep order, so re-sort by the quiz's order
	byID := make(map[primitive.ObjectID]model.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// Sample picks size random questions
func (r *questionRepo) Sample(ctx context.Context, size int) ([]model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
