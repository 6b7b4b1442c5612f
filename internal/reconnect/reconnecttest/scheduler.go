// Package reconnecttest provides a manual Scheduler for backoff tests.
package reconnecttest

import (
	"sync"
	"time"

	"github.com/DoyleJ11/cube-draft/internal/reconnect"
)

type Scheduler struct {
	mu     sync.Mutex
	timers []*Timer
}

type Timer struct {
	Delay   time.Duration
	f       func()
	mu      sync.Mutex
	stopped bool
}

func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire runs the callback even if the timer was stopped, the way a timer that
// already fired races a Stop call.
func (t *Timer) Fire() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.f()
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) reconnect.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Timer{Delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *Scheduler) Timers() []*Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Timer(nil), s.timers...)
}

// Last returns the most recently scheduled timer or nil.
func (s *Scheduler) Last() *Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// Pending counts timers that were neither stopped nor fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}
