package mock

import (
	"sync"

	"giganticwit/api/internal/autosave"
)

var _ autosave.Surface = (*Surface)(nil)

// Surface is an in-memory document whose plain text is set independently of
// its markup.
type Surface struct {
	mu       sync.Mutex
	text     string
	markup   string
	restores int
}

// Type replaces both renditions, as a user edit would.
func (s *Surface) Type(text, markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.markup = markup
}

func (s *Surface) PlainText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Surface) Markup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markup
}

// Restore sets the markup and uses it as the plain text too.
func (s *Surface) Restore(markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markup = markup
	s.text = markup
	s.restores++
}

// Restores counts Restore calls.
func (s *Surface) Restores() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restores
}
