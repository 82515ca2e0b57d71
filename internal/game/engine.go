package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"quizstorm/internal/model"
)

// Deps are the collaborators of the engine. Results, Stats, Users and Live may be nil.
type Deps struct {
	Rooms       RoomStore
	Content     QuestionSource
	Results     ResultStore
	Stats       StatsStore
	Users       UserDirectory
	Live        LiveView
	Broadcaster Broadcaster
}

type Options struct {
	Clock  Clock
	Timing Timing
	Logger zerolog.Logger
}

// Engine runs every live room of the process
type Engine struct {
	rooms       RoomStore
	content     QuestionSource
	results     ResultStore
	stats       StatsStore
	users       UserDirectory
	live        LiveView
	broadcaster Broadcaster

	clock    Clock
	timing   Timing
	log      zerolog.Logger
	registry *registry

	// lifeMu orders actor creation against Shutdown, so every actor that
	// was started is in the registry when Shutdown takes its snapshot.
	lifeMu sync.Mutex
	wg     sync.WaitGroup
	closed atomic.Bool
}

func NewEngine(deps Deps, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	return &Engine{
		rooms:       deps.Rooms,
		content:     deps.Content,
		results:     deps.Results,
		stats:       deps.Stats,
		users:       deps.Users,
		live:        deps.Live,
		broadcaster: deps.Broadcaster,
		clock:       opts.Clock,
		timing:      opts.Timing,
		log:         opts.Logger.With().Str("component", "engine").Logger(),
		registry:    newRegistry(),
	}
}

// JoinCommand attaches a connection to a room
type JoinCommand struct {
	RoomCode    string
	PlayerID    string
	DisplayName string
	AuthUserID  string
	ConnID      string
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (e *Engine) spawn(code string) *roomActor {
	return newRoomActor(code, e)
}

func (e *Engine) actorFor(code string) (*roomActor, error) {
	if e.closed.Load() {
		return nil, ErrRoomClosed
	}
	a := e.registry.Get(normalizeCode(code))
	if a == nil {
		return nil, ErrRoomNotFound
	}
	return a, nil
}

func (e *Engine) ensureActor(code string) (*roomActor, error) {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.closed.Load() {
		return nil, ErrRoomClosed
	}
	a, created := e.registry.GetOrCreate(code, e.spawn)
	if created {
		e.wg.Add(1)
		go a.run()
	}
	return a, nil
}

// Join adds the player to the room, or refreshes their connection on a rejoin
func (e *Engine) Join(ctx context.Context, cmd JoinCommand) error {
	if cmd.PlayerID != cmd.AuthUserID {
		return ErrIdentityMismatch
	}
	code := normalizeCode(cmd.RoomCode)

	persisted, err := e.rooms.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("load room: %w", err)
	}
	if persisted == nil {
		return ErrRoomNotFound
	}

	a := e.registry.Get(code)
	if a == nil {
		switch persisted.Status {
		case model.RoomFinished:
			return ErrRoomFinished
		case model.RoomLive:
			// live on record but no actor: the process lost it
			return ErrRoomClosed
		}
		if a, err = e.ensureActor(code); err != nil {
			return err
		}
	}

	m := joinMsg{
		command:     newCommand(),
		playerID:    cmd.PlayerID,
		displayName: cmd.DisplayName,
		connID:      cmd.ConnID,
		persisted:   persisted,
	}
	return a.call(ctx, m, m.reply)
}

// Start begins the game. Only the host of a waiting room may start it.
func (e *Engine) Start(ctx context.Context, roomCode, requesterID string) error {
	code := normalizeCode(roomCode)
	setup, err := e.prepareStart(ctx, code, requesterID)
	if err != nil {
		return err
	}

	a, err := e.ensureActor(code)
	if err != nil {
		return err
	}
	m := startMsg{command: newCommand(), setup: setup}
	if err := a.call(ctx, m, m.reply); err != nil {
		return err
	}

	if err := e.rooms.UpdateStatus(ctx, code, model.RoomLive, 0); err != nil {
		e.log.Error().Err(err).Str("room", code).Msg("failed to mark room live")
	}
	return nil
}

func (e *Engine) SubmitAnswer(ctx context.Context, cmd SubmitCommand) error {
	a, err := e.actorFor(cmd.RoomCode)
	if err != nil {
		return err
	}
	m := submitMsg{command: newCommand(), cmd: cmd}
	return a.call(ctx, m, m.reply)
}

// Skip ends the current question early. Outside a question it does nothing.
func (e *Engine) Skip(ctx context.Context, roomCode, requesterID string) error {
	return e.host(ctx, roomCode, requesterID, trigSkip)
}

// Advance moves the room to its next phase on the host's command
func (e *Engine) Advance(ctx context.Context, roomCode, requesterID string) error {
	return e.host(ctx, roomCode, requesterID, trigHostAdvance)
}

func (e *Engine) host(ctx context.Context, roomCode, requesterID string, t trigger) error {
	a, err := e.actorFor(roomCode)
	if err != nil {
		return err
	}
	m := hostMsg{command: newCommand(), playerID: requesterID, trigger: t}
	return a.call(ctx, m, m.reply)
}

// Snapshot returns a copy of a live room's state
func (e *Engine) Snapshot(ctx context.Context, roomCode string) (RoomSnapshot, error) {
	a, err := e.actorFor(roomCode)
	if err != nil {
		return RoomSnapshot{}, err
	}
	var snap RoomSnapshot
	m := snapshotMsg{command: newCommand(), out: &snap}
	if err := a.call(ctx, m, m.reply); err != nil {
		return RoomSnapshot{}, err
	}
	return snap, nil
}

func (e *Engine) ActiveRooms() int {
	return e.registry.Len()
}

// Shutdown stops every room and waits for pending result writes
func (e *Engine) Shutdown(ctx context.Context) error {
	e.lifeMu.Lock()
	e.closed.Store(true)
	e.lifeMu.Unlock()

	for _, a := range e.registry.all() {
		m := shutdownMsg{command: newCommand()}
		if err := a.call(ctx, m, m.reply); err != nil && !errors.Is(err, ErrRoomClosed) {
			e.log.Warn().Err(err).Str("room", a.room.code).Msg("room did not stop cleanly")
		}
		e.registry.Remove(a.room.code, a)
	}

	stopped := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
