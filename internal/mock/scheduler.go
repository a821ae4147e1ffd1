package mock

import (
	"sync"
	"time"

	"giganticwit/api/internal/autosave"
)

var _ autosave.Scheduler = (*Scheduler)(nil)

// Scheduler is a manual clock. Callbacks run only when Advance moves the
// clock past their deadline, on the goroutine calling Advance.
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*Task
}

// Task is a callback registered with Scheduler.
type Task struct {
	scheduler *Scheduler
	at        time.Duration
	f         func()
	stopped   bool
	fired     bool
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) autosave.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Task{scheduler: s, at: s.now + d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (t *Task) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, running due callbacks in deadline order.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *Task
		for _, t := range s.tasks {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of callbacks neither stopped nor fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Scheduled returns how many callbacks were ever registered.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
