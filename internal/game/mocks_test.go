package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"quizstorm/internal/model"
)

// --- RoomStore ---

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	args := m.Called(ctx, code)
	room, _ := args.Get(0).(*model.Room)
	return room, args.Error(1)
}

func (m *MockRoomStore) UpdateStatus(ctx context.Context, code string, status model.RoomStatus, questionIndex int) error {
	args := m.Called(ctx, code, status, questionIndex)
	return args.Error(0)
}

// --- QuestionSource ---

type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) LoadQuestions(ctx context.Context, room *model.Room) ([]model.Question, error) {
	args := m.Called(ctx, room)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

// --- ResultStore ---

type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) SaveResult(ctx context.Context, result *model.GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- StatsStore ---

type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) ApplyGameStats(ctx context.Context, deltas []model.StatsDelta) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}

// --- UserDirectory ---

type staticDirectory map[string]string

func (d staticDirectory) DisplayNames(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := d[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// --- Broadcaster ---

type sentEvent struct {
	room    string
	player  string // empty for room broadcasts
	event   string
	payload any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
	panics int // BroadcastToRoom panics this many times before recording
}

func (b *recordingBroadcaster) BroadcastToRoom(roomCode, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.panics > 0 {
		b.panics--
		panic("broadcast exploded")
	}
	b.events = append(b.events, sentEvent{room: roomCode, event: event, payload: payload})
}

func (b *recordingBroadcaster) SendToPlayer(roomCode, playerID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{room: roomCode, player: playerID, event: event, payload: payload})
}

func (b *recordingBroadcaster) named(event string) []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentEvent
	for _, e := range b.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (b *recordingBroadcaster) last(event string) (sentEvent, bool) {
	evs := b.named(event)
	if len(evs) == 0 {
		return sentEvent{}, false
	}
	return evs[len(evs)-1], true
}

// --- LiveView ---

type recordingLiveView struct {
	mu        sync.Mutex
	metas     []model.LiveRoomMeta
	standings map[string][]model.Standing
}

func (v *recordingLiveView) PublishRoom(_ context.Context, meta model.LiveRoomMeta) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metas = append(v.metas, meta)
	return nil
}

func (v *recordingLiveView) PublishStandings(_ context.Context, code string, board []model.Standing) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.standings == nil {
		v.standings = make(map[string][]model.Standing)
	}
	v.standings[code] = board
	return nil
}

// --- Clock ---

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock only moves on Advance. Due callbacks run on the caller's goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due, pending []*fakeTimer
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.fired = true
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
