package autosave

import "time"

// Task is a scheduled callback that can be cancelled before it runs.
// Stop reports whether the call prevented the callback from running.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed without blocking the caller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// TimerScheduler returns the Scheduler backed by time.AfterFunc.
func TimerScheduler() Scheduler {
	return timerScheduler{}
}
