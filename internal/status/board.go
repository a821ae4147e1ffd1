// Package status keeps the live save indicator and document statistics shown
// to the user.
package status

import (
	"fmt"
	"log"
	"sync"
	"time"

	"giganticwit/api/internal/autosave"
)

var _ autosave.Reporter = (*Board)(nil)

// Snapshot is the display state at one instant.
type Snapshot struct {
	Saved          bool      `json:"saved"`
	Words          int       `json:"words"`
	Chars          int       `json:"chars"`
	StoragePercent float64   `json:"storagePercent"`
	StorageText    string    `json:"storageText"`
	Notice         string    `json:"notice,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Board is a thread-safe Reporter that can be read back as a Snapshot.
type Board struct {
	mu    sync.RWMutex
	state Snapshot
	now   func() time.Time
}

func NewBoard() *Board {
	b := &Board{now: time.Now}
	b.state.StorageText = StorageText(0)
	return b
}

// StorageText formats a storage percentage the way it is displayed.
func StorageText(percent float64) string {
	return fmt.Sprintf("Storage: %.2f%% used", percent)
}

func (b *Board) SetSavedIndicator(visible bool) {
	b.update(func(s *Snapshot) {
		s.Saved = visible
		if visible {
			s.Notice = ""
		}
	})
}

func (b *Board) SetWordCount(n int) {
	b.update(func(s *Snapshot) { s.Words = n })
}

func (b *Board) SetCharCount(n int) {
	b.update(func(s *Snapshot) { s.Chars = n })
}

func (b *Board) SetStorageUsage(percent float64) {
	b.update(func(s *Snapshot) {
		s.StoragePercent = percent
		s.StorageText = StorageText(percent)
	})
}

// Notice shows a non-fatal message until the next successful save.
func (b *Board) Notice(message string) {
	log.Printf("notice: %s", message)
	b.update(func(s *Snapshot) { s.Notice = message })
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Board) update(fn func(*Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
	b.state.UpdatedAt = b.now()
}
