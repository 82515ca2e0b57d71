package game

import (
	"time"

	"quizstorm/internal/model"
)

type Phase string

const (
	PhaseWaiting      Phase = "waiting"
	PhaseQuestion     Phase = "question"
	PhaseFeedback     Phase = "feedback"
	PhaseIntermission Phase = "intermission"
	PhaseFinished     Phase = "finished"
)

type player struct {
	id          string
	displayName string
	score       int
	connID      string
}

type answerRecord struct {
	Submission
	submittedAt time.Time
}

// room is the authoritative state of one live game.
// Only the owning roomActor goroutine reads or writes it.
type room struct {
	code   string
	hostID string
	status model.RoomStatus
	phase  Phase

	timeLimitSeconds int
	hostPlaying      bool
	questions        []model.Question

	currentQuestionIndex int
	timeRemaining        int
	acceptingAnswers     bool

	players map[string]*player
	order   []string // join order, used for stable tie-breaks

	answers map[int]map[string]answerRecord
	scored  map[int]bool
}

func newRoom(code string) *room {
	return &room{
		code:    code,
		status:  model.RoomWaiting,
		phase:   PhaseWaiting,
		players: make(map[string]*player),
		answers: make(map[int]map[string]answerRecord),
		scored:  make(map[int]bool),
	}
}

func (r *room) timed() bool {
	return r.timeLimitSeconds > 0
}

func (r *room) currentQuestion() *model.Question {
	if r.currentQuestionIndex < 0 || r.currentQuestionIndex >= len(r.questions) {
		return nil
	}
	return &r.questions[r.currentQuestionIndex]
}

// addPlayer registers id at the end of the join order. Existing entries are left in place.
func (r *room) addPlayer(id, displayName string, score int) *player {
	if p, ok := r.players[id]; ok {
		return p
	}
	p := &player{id: id, displayName: displayName, score: score}
	r.players[id] = p
	r.order = append(r.order, id)
	return p
}

func (r *room) removePlayer(id string) {
	if _, ok := r.players[id]; !ok {
		return
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *room) answersFor(index int) map[string]answerRecord {
	m, ok := r.answers[index]
	if !ok {
		m = make(map[string]answerRecord)
		r.answers[index] = m
	}
	return m
}

func (r *room) scores() []PlayerScore {
	out := make([]PlayerScore, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		out = append(out, PlayerScore{PlayerID: p.id, DisplayName: p.displayName, Score: p.score})
	}
	return out
}

func (r *room) leaderboard() []model.Standing {
	return BuildLeaderboard(r.scores())
}

// RoomSnapshot is a read-only copy of a room's state
type RoomSnapshot struct {
	Code             string           `json:"roomCode"`
	HostID           string           `json:"hostId"`
	Status           model.RoomStatus `json:"status"`
	Phase            Phase            `json:"phase"`
	TimeLimitSeconds int              `json:"timeLimitSeconds"`
	QuestionIndex    int              `json:"questionIndex"`
	TotalQuestions   int              `json:"totalQuestions"`
	TimeRemaining    int              `json:"timeRemaining"`
	AcceptingAnswers bool             `json:"acceptingAnswers"`
	AnswerCount      int              `json:"answerCount"`
	Standings        []model.Standing `json:"standings"`
}

func (r *room) snapshot() RoomSnapshot {
	s := RoomSnapshot{
		Code:             r.code,
		HostID:           r.hostID,
		Status:           r.status,
		Phase:            r.phase,
		TimeLimitSeconds: r.timeLimitSeconds,
		QuestionIndex:    r.currentQuestionIndex,
		TotalQuestions:   len(r.questions),
		TimeRemaining:    r.timeRemaining,
		AcceptingAnswers: r.acceptingAnswers,
		AnswerCount:      len(r.answers[r.currentQuestionIndex]),
		Standings:        r.leaderboard(),
	}
	return s
}
