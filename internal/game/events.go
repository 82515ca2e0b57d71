package game

import "quizstorm/internal/model"

// Outbound event names
const (
	EventPlayerJoined      = "player-joined"
	EventGameStarted       = "game-started"
	EventNewQuestion       = "new-question"
	EventAnswerCountUpdate = "answer-count-update"
	EventTimerTick         = "timer-tick"
	EventAnswerResult      = "answer-result"
	EventRoundEnded        = "round-ended"
	EventStandingsUpdate   = "standings-update"
	EventGameEnded         = "game-ended"
	EventSyncState         = "sync-state"
	EventCommandRejected   = "command-rejected"
	EventError             = "error"
)

// Broadcaster delivers events to the connections of a room.
// Implementations must not block the caller.
type Broadcaster interface {
	BroadcastToRoom(roomCode, event string, payload any)
	SendToPlayer(roomCode, playerID, event string, payload any)
}

type PlayerJoinedPayload struct {
	PlayerID         string           `json:"playerId"`
	DisplayName      string           `json:"displayName"`
	TotalPlayers     int              `json:"totalPlayers"`
	CurrentStandings []model.Standing `json:"currentStandings"`
}

type GameStartedPayload struct {
	TotalQuestions   int `json:"totalQuestions"`
	TimeLimitSeconds int `json:"timeLimitSeconds"`
}

type Media struct {
	URL  string          `json:"url"`
	Type model.MediaType `json:"type"`
}

// QuestionView is a question as players see it, without the answer
type QuestionView struct {
	Index            int      `json:"index"`
	Total            int      `json:"total"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
	Media            *Media   `json:"media,omitempty"`
}

type AnswerCountPayload struct {
	Count        int `json:"count"`
	TotalPlayers int `json:"totalPlayers"`
}

type TimerTickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

type AnswerResultPayload struct {
	PlayerID           string `json:"playerId"`
	Correct            bool   `json:"correct"`
	CorrectOptionIndex int    `json:"correctOptionIndex"`
	PointsEarned       int    `json:"pointsEarned"`
	TotalScore         int    `json:"totalScore"`
}

type RoundEndedPayload struct {
	CorrectOptionIndex int `json:"correctOptionIndex"`
}

type StandingsPayload struct {
	Leaderboard    []model.Standing `json:"leaderboard"`
	IsIntermission bool             `json:"isIntermission"`
}

type GameEndedPayload struct {
	Winner           *model.Standing  `json:"winner"`
	FinalLeaderboard []model.Standing `json:"finalLeaderboard"`
}

// SyncStatePayload lets a (re)joining connection render the current room
type SyncStatePayload struct {
	Status             model.RoomStatus `json:"status"`
	Phase              Phase            `json:"phase"`
	QuestionIndex      int              `json:"questionIndex"`
	TotalQuestions     int              `json:"totalQuestions"`
	Question           *QuestionView    `json:"question,omitempty"`
	TimeRemaining      int              `json:"timeRemaining"`
	AcceptingAnswers   bool             `json:"acceptingAnswers"`
	HasAnswered        bool             `json:"hasAnswered"`
	CorrectOptionIndex *int             `json:"correctOptionIndex,omitempty"`
	Standings          []model.Standing `json:"standings"`
}

type CommandRejectedPayload struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func questionView(q *model.Question, index, total, timeLimit int) *QuestionView {
	v := &QuestionView{
		Index:            index,
		Total:            total,
		Text:             q.Text,
		Options:          q.Options,
		TimeLimitSeconds: timeLimit,
	}
	if q.MediaURL != "" && q.MediaType != "" && q.MediaType != model.MediaNone {
		v.Media = &Media{URL: q.MediaURL, Type: q.MediaType}
	}
	return v
}
