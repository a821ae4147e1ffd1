package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"giganticwit/api/internal/autosave"
	"giganticwit/api/internal/config"
	"giganticwit/api/internal/editor"
	"giganticwit/api/internal/export"
	"giganticwit/api/internal/kvstore"
	"giganticwit/api/internal/ocr"
	"giganticwit/api/internal/status"
	"giganticwit/api/internal/theme"
)

// Exporter renders the document to a downloadable file.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Result, error)
}

// DocumentView is the document as returned to clients.
type DocumentView struct {
	Content string `json:"content"`
	Text    string `json:"text"`
	State   string `json:"state"`
}

// Service owns the note and its collaborators for one editing session.
// Operations that change the document run one at a time.
type Service struct {
	mu sync.Mutex

	cfg      config.Config
	store    kvstore.Store
	doc      *editor.Document
	board    *status.Board
	autosave *autosave.Coordinator
	theme    *theme.Service
	exporter Exporter
	ocr      *ocr.Inserter
}

// New wires the document to the autosave coordinator. engine may be nil, in
// which case OCR requests are rejected.
func New(cfg config.Config, store kvstore.Store, exporter Exporter, engine ocr.Engine, opts ...autosave.Option) *Service {
	doc := editor.New()
	board := status.NewBoard()

	opts = append([]autosave.Option{
		autosave.WithDelay(cfg.SaveDelay),
		autosave.WithCapacity(cfg.CapacityBytes),
	}, opts...)
	coordinator := autosave.New(doc, store, board, opts...)
	doc.OnChange(coordinator.OnContentChanged)

	s := &Service{
		cfg:      cfg,
		store:    store,
		doc:      doc,
		board:    board,
		autosave: coordinator,
		theme:    theme.NewService(store),
		exporter: exporter,
	}
	if engine != nil {
		s.ocr = ocr.NewInserter(engine, doc, cfg.OCRLanguages)
	}
	return s
}

// Startup restores the persisted document.
func (s *Service) Startup(ctx context.Context) autosave.Stats {
	stats := s.autosave.LoadPersisted(ctx)
	current, err := s.theme.Current(ctx)
	if err != nil {
		log.Printf("WARNING: %v", err)
	}
	log.Printf("Gigantic Wit loaded: %d words, %d chars, %s theme", stats.Words, stats.Chars, current)
	return stats
}

// Shutdown writes any pending save and stops the coordinator.
func (s *Service) Shutdown(ctx context.Context) error {
	defer s.autosave.Close()
	if err := s.autosave.Flush(ctx); err != nil {
		return fmt.Errorf("flush autosave: %w", err)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) Document() DocumentView {
	return DocumentView{
		Content: s.doc.Markup(),
		Text:    s.doc.PlainText(),
		State:   s.autosave.State().String(),
	}
}

// Edit replaces the document with user-supplied markup.
func (s *Service) Edit(markup string) DocumentView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Edit(markup)
	return s.Document()
}

// NewFile empties the document. The empty document is autosaved like any edit.
func (s *Service) NewFile() DocumentView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Replace("")
	return s.Document()
}

// ClearAll deletes the persisted document and starts over from the store.
func (s *Service) ClearAll(ctx context.Context) (DocumentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosave.Cancel()
	if err := s.store.Remove(ctx, kvstore.ContentKey); err != nil {
		return DocumentView{}, fmt.Errorf("clear content: %w", err)
	}
	s.doc.Clear()
	s.autosave.LoadPersisted(ctx)
	return s.Document(), nil
}

func (s *Service) Status() status.Snapshot {
	return s.board.Snapshot()
}

func (s *Service) Theme(ctx context.Context) (theme.Theme, error) {
	return s.theme.Current(ctx)
}

func (s *Service) ToggleTheme(ctx context.Context) (theme.Theme, error) {
	return s.theme.Toggle(ctx)
}

func (s *Service) Export(ctx context.Context, format export.Format) (*export.Result, error) {
	return s.exporter.Export(ctx, export.Request{
		Format: format,
		Markup: s.doc.Markup(),
	})
}

// OCR appends the text recognized in image to the document. Edits wait for
// recognition to finish, and no save runs while the placeholder is shown.
func (s *Service) OCR(ctx context.Context, image []byte) (ocr.Result, error) {
	if s.ocr == nil {
		return ocr.Result{}, domainError(http.StatusServiceUnavailable, "OCR_UNAVAILABLE", "OCR engine not configured", nil)
	}
	if len(image) == 0 {
		return ocr.Result{}, ocr.ErrNoImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Insert reschedules the save when it replaces the document.
	s.autosave.Cancel()
	result, err := s.ocr.Insert(ctx, image)
	if err != nil {
		if !errors.Is(err, ocr.ErrNoImage) {
			s.board.Notice(fmt.Sprintf("OCR Failed: %v", err))
		}
		return ocr.Result{}, err
	}
	return result, nil
}
