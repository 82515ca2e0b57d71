package game

// SubmitCommand is one submit-answer from a connection.
// AuthUserID is the identity the connection authenticated as.
type SubmitCommand struct {
	RoomCode    string
	PlayerID    string
	AuthUserID  string
	OptionIndex int
}

func (a *roomActor) handleSubmit(cmd SubmitCommand) error {
	r := a.room

	if cmd.PlayerID != cmd.AuthUserID {
		return ErrIdentityMismatch
	}
	if r.phase != PhaseQuestion || !r.acceptingAnswers {
		return ErrNotAcceptingAnswers
	}
	if _, ok := r.players[cmd.PlayerID]; !ok {
		return ErrUnknownPlayer
	}
	q := r.currentQuestion()
	if cmd.OptionIndex < 0 || cmd.OptionIndex >= len(q.Options) {
		return ErrInvalidOption
	}

	answers := r.answersFor(r.currentQuestionIndex)
	if _, ok := answers[cmd.PlayerID]; ok {
		return ErrAlreadyAnswered
	}
	answers[cmd.PlayerID] = answerRecord{
		Submission:  Submission{OptionIndex: cmd.OptionIndex, TimeRemaining: r.timeRemaining},
		submittedAt: a.deps.clock.Now(),
	}

	a.log.Debug().Str("player", cmd.PlayerID).Int("question", r.currentQuestionIndex).Int("option", cmd.OptionIndex).Msg("answer recorded")
	a.broadcast(EventAnswerCountUpdate, AnswerCountPayload{Count: len(answers), TotalPlayers: len(r.players)})

	if !r.timed() && len(answers) >= len(r.players) {
		a.schedule(timerGrace, a.deps.timing.GraceDelay)
	}
	return nil
}
