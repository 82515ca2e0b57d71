package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quizstorm/internal/model"
)

// --- RoomRepo ---

type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Create(ctx context.Context, room *model.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	args := m.Called(ctx, code)
	room, _ := args.Get(0).(*model.Room)
	return room, args.Error(1)
}

func (m *MockRoomRepo) AddPlayer(ctx context.Context, code, userID string) error {
	args := m.Called(ctx, code, userID)
	return args.Error(0)
}

func (m *MockRoomRepo) UpdateStatus(ctx context.Context, code string, status model.RoomStatus, questionIndex int) error {
	args := m.Called(ctx, code, status, questionIndex)
	return args.Error(0)
}

func (m *MockRoomRepo) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- QuizRepo ---

type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*model.Quiz)
	return quiz, args.Error(1)
}

// --- QuestionRepo ---

type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepo) CreateMany(ctx context.Context, questions []model.Question) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, questions)
	ids, _ := args.Get(0).([]primitive.ObjectID)
	return ids, args.Error(1)
}

func (m *MockQuestionRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Question, error) {
	args := m.Called(ctx, ids)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *MockQuestionRepo) Sample(ctx context.Context, size int) ([]model.Question, error) {
	args := m.Called(ctx, size)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *MockQuestionRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- RoomCache ---

type MockRoomCache struct {
	mock.Mock
}

func (m *MockRoomCache) SetMeta(ctx context.Context, meta model.LiveRoomMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MockRoomCache) GetMeta(ctx context.Context, code string) (*model.LiveRoomMeta, error) {
	args := m.Called(ctx, code)
	meta, _ := args.Get(0).(*model.LiveRoomMeta)
	return meta, args.Error(1)
}

func (m *MockRoomCache) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// --- LeaderboardCache ---

type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) Publish(ctx context.Context, roomCode string, board []model.Standing) error {
	args := m.Called(ctx, roomCode, board)
	return args.Error(0)
}

func (m *MockLeaderboardCache) GetBoard(ctx context.Context, roomCode string) ([]model.Standing, error) {
	args := m.Called(ctx, roomCode)
	board, _ := args.Get(0).([]model.Standing)
	return board, args.Error(1)
}

func (m *MockLeaderboardCache) GetTop(ctx context.Context, roomCode string, limit int) ([]model.Standing, error) {
	args := m.Called(ctx, roomCode, limit)
	board, _ := args.Get(0).([]model.Standing)
	return board, args.Error(1)
}

func (m *MockLeaderboardCache) GetRank(ctx context.Context, roomCode, playerID string) (int64, error) {
	args := m.Called(ctx, roomCode, playerID)
	return args.Get(0).(int64), args.Error(1)
}

// --- ResultRepo ---

type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) SaveResult(ctx context.Context, result *model.GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepo) GetByRoomCode(ctx context.Context, code string) (*model.GameResult, error) {
	args := m.Called(ctx, code)
	result, _ := args.Get(0).(*model.GameResult)
	return result, args.Error(1)
}

func (m *MockResultRepo) ListByPlayer(ctx context.Context, userID string, limit int64) ([]model.GameResult, error) {
	args := m.Called(ctx, userID, limit)
	results, _ := args.Get(0).([]model.GameResult)
	return results, args.Error(1)
}

// --- UserRepo ---

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepo) Upsert(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	names, _ := args.Get(0).(map[string]string)
	return names, args.Error(1)
}

func (m *MockUserRepo) ApplyGameStats(ctx context.Context, deltas []model.StatsDelta) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}
