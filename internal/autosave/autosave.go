// Package autosave turns a stream of document change notifications into
// debounced writes to the key-value store, keeping the status display in sync.
package autosave

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"giganticwit/api/internal/kvstore"
)

const (
	// DefaultDelay is the quiet period that must follow the last change
	// before the document is written.
	DefaultDelay = time.Second

	persistTimeout = 5 * time.Second
)

// SaveState describes whether the latest edits have reached the store.
type SaveState int

const (
	// StateSaved means the store holds the current document, or nothing was
	// edited since startup.
	StateSaved SaveState = iota
	// StateDirty means edits exist that are not persisted and no save is scheduled.
	StateDirty
	// StatePending means a save is scheduled and waiting for input to pause.
	StatePending
)

func (s SaveState) String() string {
	switch s {
	case StateSaved:
		return "saved"
	case StateDirty:
		return "dirty"
	case StatePending:
		return "pending"
	default:
		return fmt.Sprintf("SaveState(%d)", int(s))
	}
}

// Surface is the editable document.
type Surface interface {
	PlainText() string
	Markup() string
	// Restore loads persisted markup without notifying change listeners.
	Restore(markup string)
}

// Reporter displays save status and document statistics.
type Reporter interface {
	SetSavedIndicator(visible bool)
	SetWordCount(n int)
	SetCharCount(n int)
	SetStorageUsage(percent float64)
	Notice(message string)
}

// Coordinator debounces change notifications into store writes. At most one
// save is pending at a time; every notification replaces it.
type Coordinator struct {
	surface   Surface
	store     kvstore.Store
	reporter  Reporter
	scheduler Scheduler
	key       string
	delay     time.Duration
	capacity  int

	mu         sync.Mutex
	pending    Task
	generation uint64
	state      SaveState
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.delay = d
		}
	}
}

func WithCapacity(bytes int) Option {
	return func(c *Coordinator) {
		if bytes > 0 {
			c.capacity = bytes
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithKey overrides the store key the document is written under.
func WithKey(key string) Option {
	return func(c *Coordinator) {
		if key != "" {
			c.key = key
		}
	}
}

func New(surface Surface, store kvstore.Store, reporter Reporter, opts ...Option) *Coordinator {
	c := &Coordinator{
		surface:   surface,
		store:     store,
		reporter:  reporter,
		scheduler: TimerScheduler(),
		key:       kvstore.ContentKey,
		delay:     DefaultDelay,
		capacity:  DefaultCapacity,
		state:     StateSaved,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnContentChanged hides the saved indicator, publishes fresh statistics and
// reschedules the pending save. It never writes to the store itself.
func (c *Coordinator) OnContentChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateDirty
	c.reporter.SetSavedIndicator(false)
	c.publishStatsLocked()

	c.cancelLocked()
	generation := c.generation
	c.pending = c.scheduler.AfterFunc(c.delay, func() { c.fire(generation) })
	c.state = StatePending
}

// LoadPersisted restores the stored document, if any, into the surface and
// publishes statistics exactly once. A failed read counts as no document.
func (c *Coordinator) LoadPersisted(ctx context.Context) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		log.Printf("autosave: load %s failed: %v", c.key, err)
		c.reporter.Notice(fmt.Sprintf("Could not load saved document: %v", err))
		ok = false
	}
	if ok && value != "" {
		c.surface.Restore(value)
	}
	if c.pending == nil {
		c.state = StateSaved
	}
	return c.publishStatsLocked()
}

// RefreshStats recomputes and publishes statistics without touching the
// pending save.
func (c *Coordinator) RefreshStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publishStatsLocked()
}

// Flush runs a pending save immediately. It is a no-op when nothing is pending.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return nil
	}
	c.cancelLocked()
	return c.persistLocked(ctx)
}

// Cancel drops the pending save, if any, without writing.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelLocked() {
		c.state = StateDirty
	}
}

// Close cancels the pending save.
func (c *Coordinator) Close() {
	c.Cancel()
}

// State reports the current save state.
func (c *Coordinator) State() SaveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// fire runs when a scheduled save elapses. A task that was replaced after it
// started running carries an old generation and is ignored.
func (c *Coordinator) fire(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || generation != c.generation {
		return
	}
	c.pending = nil
	c.generation++

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	_ = c.persistLocked(ctx)
}

// persistLocked writes the current markup. Failures are reported as notices
// and leave the document in memory untouched.
func (c *Coordinator) persistLocked(ctx context.Context) error {
	markup := c.surface.Markup()
	if err := c.store.Set(ctx, c.key, markup); err != nil {
		c.state = StateDirty
		log.Printf("autosave: write %s (%d bytes) failed: %v", c.key, len(markup), err)
		c.reporter.SetSavedIndicator(false)
		c.reporter.Notice(fmt.Sprintf("Autosave failed: %v", err))
		return fmt.Errorf("persist document: %w", err)
	}
	c.state = StateSaved
	c.reporter.SetSavedIndicator(true)
	return nil
}

// cancelLocked stops the pending task and invalidates its generation.
// It reports whether a task was pending.
func (c *Coordinator) cancelLocked() bool {
	if c.pending == nil {
		return false
	}
	c.pending.Stop()
	c.pending = nil
	c.generation++
	return true
}

func (c *Coordinator) publishStatsLocked() Stats {
	stats := ComputeStats(c.surface.PlainText(), c.surface.Markup(), c.capacity)
	c.reporter.SetWordCount(stats.Words)
	c.reporter.SetCharCount(stats.Chars)
	c.reporter.SetStorageUsage(stats.StoragePercent)
	return stats
}
