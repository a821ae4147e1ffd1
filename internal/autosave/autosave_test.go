package autosave_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"giganticwit/api/internal/autosave"
	"giganticwit/api/internal/kvstore"
	"giganticwit/api/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a MemoryStore and records every write.
type countingStore struct {
	*mock.Store
	mu     sync.Mutex
	writes []string
}

func newCountingStore(backing *kvstore.MemoryStore) *countingStore {
	cs := &countingStore{}
	cs.Store = &mock.Store{
		GetFn: backing.Get,
		SetFn: func(ctx context.Context, key, value string) error {
			cs.mu.Lock()
			cs.writes = append(cs.writes, value)
			cs.mu.Unlock()
			return backing.Set(ctx, key, value)
		},
		RemoveFn: backing.Remove,
	}
	return cs
}

func (s *countingStore) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

type fixture struct {
	surface   *mock.Surface
	backing   *kvstore.MemoryStore
	store     *countingStore
	reporter  *mock.Reporter
	scheduler *mock.Scheduler
	coord     *autosave.Coordinator
}

func newFixture(t *testing.T, opts ...autosave.Option) *fixture {
	t.Helper()
	f := &fixture{
		surface:   &mock.Surface{},
		backing:   kvstore.NewMemoryStore(0),
		reporter:  &mock.Reporter{},
		scheduler: &mock.Scheduler{},
	}
	f.store = newCountingStore(f.backing)
	opts = append([]autosave.Option{autosave.WithScheduler(f.scheduler)}, opts...)
	f.coord = autosave.New(f.surface, f.store, f.reporter, opts...)
	t.Cleanup(f.coord.Close)
	return f
}

func (f *fixture) edit(text string) {
	f.surface.Type(text, "<p>"+text+"</p>")
	f.coord.OnContentChanged()
}

func TestOnContentChanged_Coalesces(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for _, text := range []string{"h", "he", "hel", "hell", "hello"} {
		f.edit(text)
		f.scheduler.Advance(500 * time.Millisecond)
		assert.Empty(t, f.store.Writes(), "no write while input continues")
	}

	f.scheduler.Advance(500 * time.Millisecond)

	assert.Equal(t, []string{"<p>hello</p>"}, f.store.Writes())
	assert.Equal(t, 0, f.scheduler.Pending())
	assert.Equal(t, autosave.StateSaved, f.coord.State())
}

func TestOnContentChanged_ReleasesAfterDelay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.edit("one")

	f.scheduler.Advance(999 * time.Millisecond)
	assert.Empty(t, f.store.Writes())
	assert.Equal(t, autosave.StatePending, f.coord.State())

	f.scheduler.Advance(time.Millisecond)
	assert.Equal(t, []string{"<p>one</p>"}, f.store.Writes())

	// Silence afterwards writes nothing more.
	f.scheduler.Advance(10 * time.Second)
	assert.Len(t, f.store.Writes(), 1)

	value, ok, err := f.backing.Get(context.Background(), kvstore.ContentKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>one</p>", value)
	assert.True(t, f.reporter.Saved())
}

func TestOnContentChanged_NeverWritesSynchronously(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.edit("x")

	assert.Empty(t, f.store.Writes())
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestOnContentChanged_SinglePendingTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.edit("x")
	}

	assert.Equal(t, 10, f.scheduler.Scheduled())
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestOnContentChanged_ResetsSavedIndicator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.edit("first")
	f.scheduler.Advance(time.Second)
	require.True(t, f.reporter.Saved())

	f.edit("second")

	assert.False(t, f.reporter.Saved())
	history := f.reporter.SavedHistory()
	assert.Equal(t, []bool{false, true, false}, history)
}

func TestOnContentChanged_PublishesStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t, autosave.WithCapacity(100))
	f.surface.Type("a b  c", strings.Repeat("x", 25))
	f.coord.OnContentChanged()

	assert.Equal(t, 3, f.reporter.Words())
	assert.Equal(t, 6, f.reporter.Chars())
	assert.Equal(t, 25.0, f.reporter.StorageUsage())
	assert.Equal(t, 1, f.reporter.StatsUpdates())
}

func TestPersist_CapturesContentAtFiring(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.edit("draft")
	// The surface changes without a notification; the write reads it at firing time.
	f.surface.Type("final", "<p>final</p>")
	f.scheduler.Advance(time.Second)

	assert.Equal(t, []string{"<p>final</p>"}, f.store.Writes())
}

func TestPersist_FailureIsNonFatal(t *testing.T) {
	t.Parallel()

	backing := kvstore.NewMemoryStore(len(kvstore.ContentKey) + 10)
	surface := &mock.Surface{}
	reporter := &mock.Reporter{}
	scheduler := &mock.Scheduler{}
	coord := autosave.New(surface, backing, reporter, autosave.WithScheduler(scheduler))
	defer coord.Close()

	surface.Type("too long", "<p>this will not fit</p>")
	coord.OnContentChanged()
	scheduler.Advance(time.Second)

	assert.False(t, reporter.Saved())
	assert.Equal(t, autosave.StateDirty, coord.State())
	require.Len(t, reporter.Notices(), 1)
	assert.Contains(t, reporter.Notices()[0], "Autosave failed")
	assert.Equal(t, "<p>this will not fit</p>", surface.Markup(), "document must survive a failed write")

	// The next change retries naturally.
	surface.Type("ok", "<p>ok</p>")
	coord.OnContentChanged()
	scheduler.Advance(time.Second)

	assert.True(t, reporter.Saved())
	assert.Equal(t, autosave.StateSaved, coord.State())
	value, _, _ := backing.Get(context.Background(), kvstore.ContentKey)
	assert.Equal(t, "<p>ok</p>", value)
}

func TestLoadPersisted_RestoresSnapshot(t *testing.T) {
	t.Parallel()

	backing := kvstore.NewMemoryStore(0)

	// First session writes S.
	first := &mock.Surface{}
	firstScheduler := &mock.Scheduler{}
	writer := autosave.New(first, backing, &mock.Reporter{}, autosave.WithScheduler(firstScheduler))
	first.Type("saved text", "saved text")
	writer.OnContentChanged()
	firstScheduler.Advance(time.Second)
	writer.Close()

	// Second session restores it.
	second := &mock.Surface{}
	reporter := &mock.Reporter{}
	reader := autosave.New(second, backing, reporter, autosave.WithScheduler(&mock.Scheduler{}))
	defer reader.Close()

	stats := reader.LoadPersisted(context.Background())

	assert.Equal(t, "saved text", second.Markup())
	assert.Equal(t, 1, reporter.StatsUpdates())
	assert.Equal(t, 2, stats.Words)
	assert.Equal(t, 2, reporter.Words())
	assert.Equal(t, autosave.StateSaved, reader.State())
}

func TestLoadPersisted_NoRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	stats := f.coord.LoadPersisted(context.Background())

	assert.Equal(t, 0, f.surface.Restores())
	assert.Equal(t, "", f.surface.Markup())
	assert.Equal(t, 1, f.reporter.StatsUpdates())
	assert.Equal(t, autosave.Stats{}, stats)
	assert.Empty(t, f.store.Writes())
}

func TestLoadPersisted_ReadFailure(t *testing.T) {
	t.Parallel()

	surface := &mock.Surface{}
	reporter := &mock.Reporter{}
	store := &mock.Store{
		GetFn: func(context.Context, string) (string, bool, error) {
			return "", false, errors.New("disk on fire")
		},
	}
	coord := autosave.New(surface, store, reporter, autosave.WithScheduler(&mock.Scheduler{}))

	coord.LoadPersisted(context.Background())

	assert.Equal(t, 0, surface.Restores())
	assert.Equal(t, 1, reporter.StatsUpdates())
	require.Len(t, reporter.Notices(), 1)
	assert.Contains(t, reporter.Notices()[0], "disk on fire")
}

func TestFlush(t *testing.T) {
	t.Parallel()

	t.Run("writes pending save immediately", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.edit("now")

		require.NoError(t, f.coord.Flush(context.Background()))

		assert.Equal(t, []string{"<p>now</p>"}, f.store.Writes())
		assert.Equal(t, 0, f.scheduler.Pending())

		// The cancelled timer does not write again.
		f.scheduler.Advance(time.Second)
		assert.Len(t, f.store.Writes(), 1)
	})

	t.Run("no-op without pending save", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		require.NoError(t, f.coord.Flush(context.Background()))
		assert.Empty(t, f.store.Writes())
	})

	t.Run("returns store error", func(t *testing.T) {
		t.Parallel()

		surface := &mock.Surface{}
		reporter := &mock.Reporter{}
		store := &mock.Store{
			SetFn: func(context.Context, string, string) error { return kvstore.ErrQuotaExceeded },
		}
		coord := autosave.New(surface, store, reporter, autosave.WithScheduler(&mock.Scheduler{}))
		coord.OnContentChanged()

		err := coord.Flush(context.Background())
		assert.ErrorIs(t, err, kvstore.ErrQuotaExceeded)
		assert.Len(t, reporter.Notices(), 1)
	})
}

func TestCancel_DropsPendingSave(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.edit("discard me")
	f.coord.Cancel()
	f.scheduler.Advance(time.Minute)

	assert.Empty(t, f.store.Writes())
	assert.Equal(t, autosave.StateDirty, f.coord.State())
}

func TestStaleTaskIgnored(t *testing.T) {
	t.Parallel()

	// A scheduler whose tasks can never be stopped, as when a timer has
	// already started running.
	var mu sync.Mutex
	var callbacks []func()
	scheduler := schedulerFunc(func(_ time.Duration, f func()) autosave.Task {
		mu.Lock()
		defer mu.Unlock()
		callbacks = append(callbacks, f)
		return unstoppable{}
	})

	surface := &mock.Surface{}
	backing := kvstore.NewMemoryStore(0)
	store := newCountingStore(backing)
	coord := autosave.New(surface, store, &mock.Reporter{}, autosave.WithScheduler(scheduler))

	surface.Type("a", "a")
	coord.OnContentChanged()
	surface.Type("ab", "ab")
	coord.OnContentChanged()

	mu.Lock()
	fns := append([]func(){}, callbacks...)
	mu.Unlock()
	require.Len(t, fns, 2)

	fns[0]()
	assert.Empty(t, store.Writes(), "superseded task must not write")

	fns[1]()
	assert.Equal(t, []string{"ab"}, store.Writes())

	fns[1]()
	assert.Len(t, store.Writes(), 1, "a task writes at most once")
}

func TestRealTimerScheduler(t *testing.T) {
	t.Parallel()

	surface := &mock.Surface{}
	backing := kvstore.NewMemoryStore(0)
	reporter := &mock.Reporter{}
	coord := autosave.New(surface, backing, reporter, autosave.WithDelay(20*time.Millisecond))
	defer coord.Close()

	surface.Type("typed", "<p>typed</p>")
	coord.OnContentChanged()

	require.Eventually(t, reporter.Saved, time.Second, 5*time.Millisecond)
	value, ok, err := backing.Get(context.Background(), kvstore.ContentKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>typed</p>", value)
}

func TestSaveStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "saved", autosave.StateSaved.String())
	assert.Equal(t, "dirty", autosave.StateDirty.String())
	assert.Equal(t, "pending", autosave.StatePending.String())
	assert.Equal(t, "SaveState(9)", autosave.SaveState(9).String())
}

type schedulerFunc func(time.Duration, func()) autosave.Task

func (f schedulerFunc) AfterFunc(d time.Duration, fn func()) autosave.Task { return f(d, fn) }

type unstoppable struct{}

func (unstoppable) Stop() bool { return false }
