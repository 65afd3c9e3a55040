package triage

import (
	"sync"
	"time"
)

// Scheduler runs f once after d. Delays in this package are cosmetic, so a
// scheduler may run callbacks earlier (see ManualScheduler) without
// affecting correctness.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer cancels a scheduled callback. Stop reports whether the callback was
// prevented from running.
type Timer interface {
	Stop() bool
}

// Delays configures the cosmetic waits before messages appear.
type Delays struct {
	// Typing precedes every assistant prompt.
	Typing time.Duration
	// Analysis precedes the results message.
	Analysis time.Duration
}

// DefaultDelays mirrors the product's typing and analysis pauses.
func DefaultDelays() Delays {
	return Delays{Typing: 500 * time.Millisecond, Analysis: 2 * time.Second}
}

// RealScheduler is backed by time.AfterFunc.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler queues callbacks until Flush is called. It lets tests
// drive the engine without waiting on real time.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	delay   time.Duration
	fn      func()
	stopped bool
	ran     bool
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.ran || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, delay: d, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns how many callbacks are waiting to run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.ran {
			n++
		}
	}
	return n
}

// Delays returns the requested delays of the waiting callbacks, oldest first.
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, t := range s.tasks {
		if !t.stopped && !t.ran {
			out = append(out, t.delay)
		}
	}
	return out
}

// Flush runs waiting callbacks in scheduling order, including any that the
// callbacks themselves schedule, and returns how many ran.
func (s *ManualScheduler) Flush() int {
	ran := 0
	for {
		s.mu.Lock()
		var next *manualTask
		for _, t := range s.tasks {
			if !t.stopped && !t.ran {
				next = t
				break
			}
		}
		if next == nil {
			s.tasks = nil
			s.mu.Unlock()
			return ran
		}
		next.ran = true
		s.mu.Unlock()

		next.fn()
		ran++
	}
}
