package game

type trigger int

const (
	trigStart trigger = iota
	trigCountdownExpired
	trigSkip
	trigAllAnswered
	trigFeedbackElapsed
	trigIntermissionElapsed
	trigHostAdvance
)

func (t trigger) String() string {
	switch t {
	case trigStart:
		return "start"
	case trigCountdownExpired:
		return "countdown-expired"
	case trigSkip:
		return "skip"
	case trigAllAnswered:
		return "all-answered"
	case trigFeedbackElapsed:
		return "feedback-elapsed"
	case trigIntermissionElapsed:
		return "intermission-elapsed"
	case trigHostAdvance:
		return "host-advance"
	}
	return "unknown"
}

// transitions is the whole phase machine. A (phase, trigger) pair that is not
// listed is ignored. Leaving intermission moves to the next question, or to
// finished when there is none.
var transitions = map[Phase]map[trigger]Phase{
	PhaseWaiting: {
		trigStart: PhaseQuestion,
	},
	PhaseQuestion: {
		trigCountdownExpired: PhaseFeedback,
		trigSkip:             PhaseFeedback,
		trigAllAnswered:      PhaseFeedback,
		trigHostAdvance:      PhaseFeedback,
	},
	PhaseFeedback: {
		trigFeedbackElapsed: PhaseIntermission,
		trigHostAdvance:     PhaseIntermission,
	},
	PhaseIntermission: {
		trigIntermissionElapsed: PhaseQuestion,
		trigHostAdvance:         PhaseQuestion,
	},
}

func nextPhase(from Phase, t trigger) (Phase, bool) {
	next, ok := transitions[from][t]
	return next, ok
}

// fire applies t to the current phase. It reports whether a transition happened.
func (a *roomActor) fire(t trigger) bool {
	r := a.room
	next, ok := nextPhase(r.phase, t)
	if !ok {
		a.log.Debug().Stringer("trigger", t).Str("phase", string(r.phase)).Msg("trigger ignored")
		return false
	}

	from := r.phase
	a.cancelTimers()
	a.log.Debug().Str("from", string(from)).Str("to", string(next)).Stringer("trigger", t).Msg("phase transition")

	switch next {
	case PhaseQuestion:
		if from == PhaseIntermission {
			r.currentQuestionIndex++
		}
		if r.currentQuestionIndex >= len(r.questions) {
			r.currentQuestionIndex = len(r.questions)
			a.finish()
			return true
		}
		a.enterQuestion()
	case PhaseFeedback:
		a.enterFeedback()
	case PhaseIntermission:
		a.enterIntermission()
	}
	a.publishMeta()
	return true
}

func (a *roomActor) enterQuestion() {
	r := a.room
	r.phase = PhaseQuestion
	r.timeRemaining = r.timeLimitSeconds
	r.acceptingAnswers = true
	r.answersFor(r.currentQuestionIndex)

	q := r.currentQuestion()
	a.broadcast(EventNewQuestion, questionView(q, r.currentQuestionIndex, len(r.questions), r.timeLimitSeconds))
	a.broadcast(EventAnswerCountUpdate, AnswerCountPayload{Count: 0, TotalPlayers: len(r.players)})

	if r.timed() {
		a.schedule(timerCountdown, a.deps.timing.TickInterval)
	}
}

func (a *roomActor) tick() {
	r := a.room
	if r.phase != PhaseQuestion {
		return
	}
	if r.timeRemaining > 0 {
		r.timeRemaining--
	}
	a.broadcast(EventTimerTick, TimerTickPayload{TimeRemaining: r.timeRemaining})

	if r.timeRemaining == 0 {
		a.fire(trigCountdownExpired)
		return
	}
	a.schedule(timerCountdown, a.deps.timing.TickInterval)
}

func (a *roomActor) enterFeedback() {
	r := a.room
	r.phase = PhaseFeedback
	r.acceptingAnswers = false

	q := r.currentQuestion()
	for _, res := range a.applyScores(r.currentQuestionIndex) {
		a.broadcast(EventAnswerResult, res)
	}
	a.broadcast(EventRoundEnded, RoundEndedPayload{CorrectOptionIndex: q.CorrectOptionIndex})

	if r.timed() {
		a.schedule(timerFeedback, a.deps.timing.FeedbackDelay)
	}
}

// applyScores adds the points of question index to every player once.
// A second call for the same index changes nothing and returns nil.
func (a *roomActor) applyScores(index int) []AnswerResultPayload {
	r := a.room
	if r.scored[index] {
		return nil
	}
	r.scored[index] = true

	q := &r.questions[index]
	answers := r.answers[index]
	results := make([]AnswerResultPayload, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]

		var sub *Submission
		if rec, ok := answers[id]; ok {
			sub = &rec.Submission
		}
		points := CalculatePoints(sub, q.CorrectOptionIndex, r.timeLimitSeconds)
		p.score += points

		results = append(results, AnswerResultPayload{
			PlayerID:           id,
			Correct:            sub != nil && sub.OptionIndex == q.CorrectOptionIndex,
			CorrectOptionIndex: q.CorrectOptionIndex,
			PointsEarned:       points,
			TotalScore:         p.score,
		})
	}
	return results
}

func (a *roomActor) enterIntermission() {
	r := a.room
	r.phase = PhaseIntermission

	board := r.leaderboard()
	a.broadcast(EventStandingsUpdate, StandingsPayload{Leaderboard: board, IsIntermission: true})
	a.publishStandings(board)

	if r.timed() {
		a.schedule(timerIntermission, a.deps.timing.IntermissionDelay)
	}
}

// handleHost runs skip and advance. An inapplicable command is a no-op, not an error.
func (a *roomActor) handleHost(playerID string, t trigger) error {
	r := a.room
	if r.hostID == "" || playerID != r.hostID {
		return ErrNotHost
	}
	if t == trigSkip && r.phase != PhaseQuestion {
		return nil
	}
	a.fire(t)
	return nil
}
