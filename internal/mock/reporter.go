package mock

import (
	"sync"

	"giganticwit/api/internal/autosave"
)

var _ autosave.Reporter = (*Reporter)(nil)

// Reporter records every status update it receives.
type Reporter struct {
	mu           sync.Mutex
	saved        bool
	savedHistory []bool
	words        int
	chars        int
	storage      float64
	storageCalls int
	notices      []string
}

func (r *Reporter) SetSavedIndicator(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = visible
	r.savedHistory = append(r.savedHistory, visible)
}

func (r *Reporter) SetWordCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.words = n
}

func (r *Reporter) SetCharCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chars = n
}

func (r *Reporter) SetStorageUsage(percent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = percent
	r.storageCalls++
}

func (r *Reporter) Notice(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

func (r *Reporter) Saved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved
}

// SavedHistory returns every value passed to SetSavedIndicator, in order.
func (r *Reporter) SavedHistory() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.savedHistory...)
}

func (r *Reporter) Words() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.words
}

func (r *Reporter) Chars() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chars
}

func (r *Reporter) StorageUsage() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storage
}

// StatsUpdates counts how many times statistics were published.
func (r *Reporter) StatsUpdates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storageCalls
}

func (r *Reporter) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}
