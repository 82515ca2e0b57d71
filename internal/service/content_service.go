package service

import (
	"context"
	"fmt"

	"quizstorm/internal/model"
	"quizstorm/internal/repository"
)

// ContentService loads the question set a game is played with
type ContentService struct {
	questionRepo repository.QuestionRepo
	quizRepo     repository.QuizRepo
	sampleSize   int
}

func NewContentService(questionRepo repository.QuestionRepo, quizRepo repository.QuizRepo, sampleSize int) *ContentService {
	if sampleSize <= 0 {
		sampleSize = 5
	}
	return &ContentService{
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		sampleSize:   sampleSize,
	}
}

// LoadQuestions returns the quiz's questions in quiz order, or a random sample
// when the room has no quiz. An unknown quiz yields no questions.
func (s *ContentService) LoadQuestions(ctx context.Context, room *model.Room) ([]model.Question, error) {
	if room.QuizID == "" {
		questions, err := s.questionRepo.Sample(ctx, s.sampleSize)
		if err != nil {
			return nil, fmt.Errorf("failed to sample questions: %w", err)
		}
		return questions, nil
	}

	quiz, err := s.quizRepo.GetByID(ctx, room.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, nil
	}

	questions, err := s.questionRepo.GetByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}
	return questions, nil
}
