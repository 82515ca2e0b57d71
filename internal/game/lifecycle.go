package game

import (
	"context"
	"fmt"

	"quizstorm/internal/model"
)

// RoomStore is the persisted room record
type RoomStore interface {
	GetByCode(ctx context.Context, code string) (*model.Room, error)
	UpdateStatus(ctx context.Context, code string, status model.RoomStatus, questionIndex int) error
}

// QuestionSource yields the ordered question set of a room
type QuestionSource interface {
	LoadQuestions(ctx context.Context, room *model.Room) ([]model.Question, error)
}

type ResultStore interface {
	SaveResult(ctx context.Context, result *model.GameResult) error
}

type StatsStore interface {
	ApplyGameStats(ctx context.Context, deltas []model.StatsDelta) error
}

// UserDirectory resolves user ids to display names. Unknown ids are left out.
type UserDirectory interface {
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

// LiveView mirrors live rooms for readers outside the engine
type LiveView interface {
	PublishRoom(ctx context.Context, meta model.LiveRoomMeta) error
	PublishStandings(ctx context.Context, roomCode string, board []model.Standing) error
}

type startSetup struct {
	hostID    string
	settings  model.RoomSettings
	roster    []string
	names     map[string]string
	questions []model.Question
}

// prepareStart does the I/O of a start outside the room actor
func (e *Engine) prepareStart(ctx context.Context, code, requesterID string) (startSetup, error) {
	persisted, err := e.rooms.GetByCode(ctx, code)
	if err != nil {
		return startSetup{}, fmt.Errorf("load room: %w", err)
	}
	if persisted == nil {
		return startSetup{}, ErrRoomNotFound
	}
	if persisted.HostID != requesterID {
		return startSetup{}, ErrNotHost
	}
	switch persisted.Status {
	case model.RoomWaiting:
	case model.RoomFinished:
		return startSetup{}, ErrRoomFinished
	default:
		return startSetup{}, ErrGameAlreadyStarted
	}

	loaded, err := e.content.LoadQuestions(ctx, persisted)
	if err != nil {
		return startSetup{}, fmt.Errorf("load questions: %w", err)
	}
	questions := make([]model.Question, 0, len(loaded))
	for _, q := range loaded {
		if q.Valid() {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return startSetup{}, ErrNoQuestions
	}

	roster := make([]string, 0, len(persisted.Players))
	for _, p := range persisted.Players {
		roster = append(roster, p.UserID)
	}

	var names map[string]string
	if e.users != nil && len(roster) > 0 {
		names, err = e.users.DisplayNames(ctx, roster)
		if err != nil {
			e.log.Warn().Err(err).Str("room", code).Msg("failed to resolve display names")
		}
	}

	settings := persisted.Settings
	if settings.TimeLimit < 0 {
		settings.TimeLimit = 0
	}

	return startSetup{
		hostID:    persisted.HostID,
		settings:  settings,
		roster:    roster,
		names:     names,
		questions: questions,
	}, nil
}

func (a *roomActor) handleStart(s startSetup) error {
	r := a.room
	if r.status != model.RoomWaiting || r.phase != PhaseWaiting {
		return ErrGameAlreadyStarted
	}

	r.hostID = s.hostID
	r.timeLimitSeconds = s.settings.TimeLimit
	r.hostPlaying = s.settings.IsHostPlaying
	r.questions = s.questions
	r.currentQuestionIndex = 0

	// roster players first, in roster order, then anyone who only joined over the socket
	joined, joinOrder := r.players, r.order
	r.players, r.order = make(map[string]*player), nil
	for _, id := range s.roster {
		name := s.names[id]
		if p, ok := joined[id]; ok && p.displayName != "" {
			name = p.displayName
		}
		if name == "" {
			name = id
		}
		np := r.addPlayer(id, name, 0)
		if p, ok := joined[id]; ok {
			np.connID = p.connID
		}
	}
	for _, id := range joinOrder {
		p := joined[id]
		r.addPlayer(id, p.displayName, 0).connID = p.connID
	}
	if !r.hostPlaying {
		r.removePlayer(r.hostID)
	}

	r.status = model.RoomLive
	a.log.Info().Int("players", len(r.players)).Int("questions", len(r.questions)).Int("time_limit", r.timeLimitSeconds).Msg("game started")

	a.broadcast(EventGameStarted, GameStartedPayload{TotalQuestions: len(r.questions), TimeLimitSeconds: r.timeLimitSeconds})
	a.fire(trigStart)
	return nil
}

func (a *roomActor) handleJoin(m joinMsg) error {
	r := a.room
	if r.status == model.RoomFinished {
		return ErrRoomFinished
	}
	if r.hostID == "" && m.persisted != nil {
		r.hostID = m.persisted.HostID
	}

	if r.phase == PhaseWaiting {
		p := r.addPlayer(m.playerID, m.displayName, 0)
		p.connID = m.connID
		if m.displayName != "" {
			p.displayName = m.displayName
		}
		a.broadcastJoined(p)
		a.publishMeta()
		return nil
	}

	p, ok := r.players[m.playerID]
	switch {
	case ok:
		p.connID = m.connID
	case m.playerID == r.hostID && !r.hostPlaying:
		// a host who is not playing watches without a seat
	default:
		p = r.addPlayer(m.playerID, m.displayName, 0)
		p.connID = m.connID
		a.broadcastJoined(p)
		a.publishMeta()
	}

	a.send(m.playerID, EventSyncState, a.syncState(m.playerID))
	return nil
}

func (a *roomActor) broadcastJoined(p *player) {
	r := a.room
	a.broadcast(EventPlayerJoined, PlayerJoinedPayload{
		PlayerID:         p.id,
		DisplayName:      p.displayName,
		TotalPlayers:     len(r.players),
		CurrentStandings: r.leaderboard(),
	})
}

func (a *roomActor) syncState(playerID string) SyncStatePayload {
	r := a.room
	s := SyncStatePayload{
		Status:           r.status,
		Phase:            r.phase,
		QuestionIndex:    r.currentQuestionIndex,
		TotalQuestions:   len(r.questions),
		TimeRemaining:    r.timeRemaining,
		AcceptingAnswers: r.acceptingAnswers,
		Standings:        r.leaderboard(),
	}
	q := r.currentQuestion()
	if q == nil {
		return s
	}
	s.Question = questionView(q, r.currentQuestionIndex, len(r.questions), r.timeLimitSeconds)
	_, s.HasAnswered = r.answers[r.currentQuestionIndex][playerID]
	if r.phase == PhaseFeedback {
		correct := q.CorrectOptionIndex
		s.CorrectOptionIndex = &correct
	}
	return s
}

// finish freezes the room, announces the result and unregisters it.
// Persistence runs after the actor loop exits.
func (a *roomActor) finish() {
	r := a.room
	a.cancelTimers()
	r.phase = PhaseFinished
	r.status = model.RoomFinished
	r.acceptingAnswers = false

	board := r.leaderboard()
	winner := Winner(board)
	a.broadcast(EventGameEnded, GameEndedPayload{Winner: winner, FinalLeaderboard: board})
	a.publishMeta()
	a.publishStandings(board)

	a.deps.registry.Remove(r.code, a)
	a.result = &outcome{
		board:         board,
		winner:        winner,
		questionIndex: r.currentQuestionIndex,
		playedAt:      a.deps.clock.Now(),
	}
	a.stopped = true

	ev := a.log.Info().Int("players", len(board))
	if winner != nil {
		ev = ev.Str("winner", winner.PlayerID).Int("winning_score", winner.Score)
	}
	ev.Msg("game finished")
}

// persist stores the outcome. Every step is best effort.
func (a *roomActor) persist(o *outcome) {
	d := a.deps
	ctx, cancel := context.WithTimeout(context.Background(), d.timing.PersistTimeout)
	defer cancel()

	result := &model.GameResult{
		RoomCode: a.room.code,
		Players:  make([]model.PlayerResult, 0, len(o.board)),
		PlayedAt: o.playedAt,
	}
	deltas := make([]model.StatsDelta, 0, len(o.board))
	for _, s := range o.board {
		result.Players = append(result.Players, model.PlayerResult{UserID: s.PlayerID, Username: s.DisplayName, Score: s.Score})
		deltas = append(deltas, model.StatsDelta{
			UserID: s.PlayerID,
			Points: s.Score,
			Won:    o.winner != nil && o.winner.PlayerID == s.PlayerID,
		})
	}
	if o.winner != nil {
		result.Winner = o.winner.PlayerID
	}

	if d.results != nil {
		if err := d.results.SaveResult(ctx, result); err != nil {
			a.log.Error().Err(err).Msg("failed to save game result")
		}
	}
	if d.stats != nil && len(deltas) > 0 {
		if err := d.stats.ApplyGameStats(ctx, deltas); err != nil {
			a.log.Error().Err(err).Msg("failed to update player stats")
		}
	}
	if err := d.rooms.UpdateStatus(ctx, a.room.code, model.RoomFinished, o.questionIndex); err != nil {
		a.log.Error().Err(err).Msg("failed to mark room finished")
	}
}
