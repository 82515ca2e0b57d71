package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizstorm/internal/config"
	"quizstorm/internal/logger"
	"quizstorm/internal/model"
	"quizstorm/internal/repository"
	"quizstorm/internal/service"
)

var seedUsers = []string{"alice", "bob", "carol"}

var seedQuestions = []model.Question{
	{Text: "What is the capital of Australia?", Options: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, CorrectOptionIndex: 2, Category: "geography", Difficulty: "easy"},
	{Text: "Which planet has the most moons?", Options: []string{"Jupiter", "Saturn", "Uranus", "Neptune"}, CorrectOptionIndex: 1, Category: "science", Difficulty: "medium"},
	{Text: "Who painted The Persistence of Memory?", Options: []string{"Dalí", "Magritte", "Miró", "Ernst"}, CorrectOptionIndex: 0, Category: "art", Difficulty: "medium"},
	{Text: "How many bits are in a byte?", Options: []string{"4", "8", "16", "32"}, CorrectOptionIndex: 1, Category: "tech", Difficulty: "easy"},
	{Text: "Which element has the symbol Fe?", Options: []string{"Fluorine", "Iron", "Lead", "Francium"}, CorrectOptionIndex: 1, Category: "science", Difficulty: "easy"},
	{Text: "In which year did the Berlin Wall fall?", Options: []string{"1987", "1989", "1991", "1993"}, CorrectOptionIndex: 1, Category: "history", Difficulty: "medium"},
	{Text: "Which flag is this?", Options: []string{"Chad", "Romania", "Andorra", "Moldova"}, CorrectOptionIndex: 1, Category: "geography", Difficulty: "hard", MediaURL: "https://flagcdn.com/w320/ro.png", MediaType: model.MediaImage},
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	userRepo := repository.NewUserRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	quizRepo := repository.NewQuizRepo(db)
	authSvc := service.NewAuthService(cfg.JWTSecret)

	var author string
	for _, name := range seedUsers {
		user := &model.User{
			ID:        uuid.NewString(),
			Username:  name,
			Role:      "player",
			CreatedAt: time.Now(),
		}
		if err := userRepo.Upsert(ctx, user); err != nil {
			log.Fatal().Err(err).Str("username", name).Msg("failed to upsert user")
		}
		if author == "" {
			author = user.ID
		}

		token, err := authSvc.IssueToken(user.ID, user.Username, 7*24*time.Hour)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to issue token")
		}
		fmt.Printf("%-6s id=%s\n       token=%s\n", name, user.ID, token)
	}

	existing, err := questionRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count questions")
	}
	if existing > 0 {
		log.Info().Int64("count", existing).Msg("questions already seeded, skipping questions and quiz")
		return
	}

	ids, err := questionRepo.CreateMany(ctx, seedQuestions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to insert questions")
	}
	log.Info().Int("count", len(ids)).Msg("questions inserted")

	quiz := &model.Quiz{
		Title:       "General Knowledge",
		Description: "A mixed warm-up round",
		QuestionIDs: ids,
		CreatedBy:   author,
		IsPublic:    true,
		Difficulty:  "mixed",
	}
	if err := quizRepo.Create(ctx, quiz); err != nil {
		log.Fatal().Err(err).Msg("failed to create quiz")
	}
	fmt.Printf("quiz   id=%s (%d questions)\n", quiz.ID.Hex(), len(ids))
}
