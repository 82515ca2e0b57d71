package game

import "time"

// Timer is a pending callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Clock schedules room timers
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// SystemClock is the wall clock
func SystemClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Timing holds the fixed delays of the phase scheduler
type Timing struct {
	TickInterval      time.Duration
	FeedbackDelay     time.Duration
	IntermissionDelay time.Duration
	GraceDelay        time.Duration
	PersistTimeout    time.Duration
}

// DefaultTiming matches the live game pacing: 1s ticks, 3s feedback, 5s intermission, 1s grace
func DefaultTiming() Timing {
	return Timing{
		TickInterval:      time.Second,
		FeedbackDelay:     3 * time.Second,
		IntermissionDelay: 5 * time.Second,
		GraceDelay:        time.Second,
		PersistTimeout:    10 * time.Second,
	}
}
