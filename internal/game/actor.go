package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"quizstorm/internal/model"
)

const (
	inboxSize  = 256
	mirrorSize = 32
)

var errInternal = errors.New("internal error")

type timerKind int

const (
	timerCountdown timerKind = iota
	timerFeedback
	timerIntermission
	timerGrace
)

func (k timerKind) String() string {
	switch k {
	case timerCountdown:
		return "countdown"
	case timerFeedback:
		return "feedback"
	case timerIntermission:
		return "intermission"
	case timerGrace:
		return "grace"
	}
	return "unknown"
}

// command is embedded by every inbound message that expects an answer.
// reply is buffered so the actor never blocks on a caller that gave up.
type command struct {
	reply chan error
}

func newCommand() command {
	return command{reply: make(chan error, 1)}
}

func (c command) respond(err error) {
	select {
	case c.reply <- err:
	default:
	}
}

type responder interface {
	respond(error)
}

type joinMsg struct {
	command
	playerID    string
	displayName string
	connID      string
	persisted   *model.Room
}

type startMsg struct {
	command
	setup startSetup
}

type submitMsg struct {
	command
	cmd SubmitCommand
}

type hostMsg struct {
	command
	playerID string
	trigger  trigger
}

type snapshotMsg struct {
	command
	out *RoomSnapshot
}

type shutdownMsg struct {
	command
}

type timerMsg struct {
	kind  timerKind
	epoch uint64
}

// outcome is what a finished room hands to persistence
type outcome struct {
	board         []model.Standing
	winner        *model.Standing
	questionIndex int
	playedAt      time.Time
}

// roomActor owns one room. Every read and write of the room happens on its goroutine.
type roomActor struct {
	room  *room
	deps  *Engine
	log   zerolog.Logger
	inbox chan any
	done  chan struct{}

	mirror chan func(context.Context)

	timers map[timerKind]Timer
	epoch  uint64

	result  *outcome
	stopped bool
}

func newRoomActor(code string, e *Engine) *roomActor {
	return &roomActor{
		room:   newRoom(code),
		deps:   e,
		log:    e.log.With().Str("room", code).Logger(),
		inbox:  make(chan any, inboxSize),
		done:   make(chan struct{}),
		mirror: make(chan func(context.Context), mirrorSize),
		timers: make(map[timerKind]Timer),
	}
}

func (a *roomActor) run() {
	defer a.deps.wg.Done()

	mirrored := make(chan struct{})
	go func() {
		defer close(mirrored)
		a.runMirror()
	}()

	for !a.stopped {
		a.handleSafely(<-a.inbox)
	}

	close(a.done)
	close(a.mirror)

	if a.result != nil {
		a.persist(a.result)
	}
	<-mirrored
	a.log.Debug().Msg("room actor stopped")
}

func (a *roomActor) handleSafely(msg any) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Str("msg", fmt.Sprintf("%T", msg)).Msg("recovered panic in room handler")
			if c, ok := msg.(responder); ok {
				c.respond(errInternal)
			}
		}
	}()
	a.handle(msg)
}

func (a *roomActor) handle(msg any) {
	switch m := msg.(type) {
	case joinMsg:
		m.respond(a.handleJoin(m))
	case startMsg:
		m.respond(a.handleStart(m.setup))
	case submitMsg:
		m.respond(a.handleSubmit(m.cmd))
	case hostMsg:
		m.respond(a.handleHost(m.playerID, m.trigger))
	case snapshotMsg:
		*m.out = a.room.snapshot()
		m.respond(nil)
	case timerMsg:
		a.handleTimer(m)
	case shutdownMsg:
		a.cancelTimers()
		a.stopped = true
		m.respond(nil)
	default:
		a.log.Warn().Str("msg", fmt.Sprintf("%T", msg)).Msg("unknown room message")
	}
}

// post queues msg unless the actor has already exited
func (a *roomActor) post(ctx context.Context, msg any) error {
	select {
	case <-a.done:
		return ErrRoomClosed
	default:
	}

	select {
	case a.inbox <- msg:
		return nil
	case <-a.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call posts msg and waits for its reply
func (a *roomActor) call(ctx context.Context, msg responder, reply <-chan error) error {
	if err := a.post(ctx, msg); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-a.done:
		select {
		case err := <-reply:
			return err
		default:
			return ErrRoomClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *roomActor) schedule(kind timerKind, d time.Duration) {
	if old, ok := a.timers[kind]; ok {
		old.Stop()
	}
	epoch := a.epoch
	a.timers[kind] = a.deps.clock.AfterFunc(d, func() {
		_ = a.post(context.Background(), timerMsg{kind: kind, epoch: epoch})
	})
}

// cancelTimers stops every pending timer. Bumping the epoch drops any timer
// message that was already queued before the stop.
func (a *roomActor) cancelTimers() {
	for kind, t := range a.timers {
		t.Stop()
		delete(a.timers, kind)
	}
	a.epoch++
}

func (a *roomActor) handleTimer(m timerMsg) {
	if m.epoch != a.epoch {
		a.log.Debug().Stringer("timer", m.kind).Msg("dropping stale timer")
		return
	}
	delete(a.timers, m.kind)

	switch m.kind {
	case timerCountdown:
		a.tick()
	case timerFeedback:
		a.fire(trigFeedbackElapsed)
	case timerIntermission:
		a.fire(trigIntermissionElapsed)
	case timerGrace:
		a.fire(trigAllAnswered)
	}
}

func (a *roomActor) broadcast(event string, payload any) {
	a.deps.broadcaster.BroadcastToRoom(a.room.code, event, payload)
}

func (a *roomActor) send(playerID, event string, payload any) {
	a.deps.broadcaster.SendToPlayer(a.room.code, playerID, event, payload)
}

// publish hands a live view update to the mirror goroutine, dropping it if the mirror is behind
func (a *roomActor) publish(fn func(context.Context)) {
	if a.deps.live == nil {
		return
	}
	select {
	case a.mirror <- fn:
	default:
		a.log.Warn().Msg("live view mirror is behind, dropping update")
	}
}

func (a *roomActor) runMirror() {
	for fn := range a.mirror {
		ctx, cancel := context.WithTimeout(context.Background(), a.deps.timing.PersistTimeout)
		fn(ctx)
		cancel()
	}
}

func (a *roomActor) publishMeta() {
	r := a.room
	meta := model.LiveRoomMeta{
		Code:           r.code,
		Status:         r.status,
		Phase:          string(r.phase),
		QuestionIndex:  r.currentQuestionIndex,
		TotalQuestions: len(r.questions),
		PlayerCount:    len(r.players),
		UpdatedAt:      a.deps.clock.Now(),
	}
	a.publish(func(ctx context.Context) {
		if err := a.deps.live.PublishRoom(ctx, meta); err != nil {
			a.log.Warn().Err(err).Msg("failed to publish room meta")
		}
	})
}

func (a *roomActor) publishStandings(board []model.Standing) {
	code := a.room.code
	a.publish(func(ctx context.Context) {
		if err := a.deps.live.PublishStandings(ctx, code, board); err != nil {
			a.log.Warn().Err(err).Msg("failed to publish standings")
		}
	})
}
