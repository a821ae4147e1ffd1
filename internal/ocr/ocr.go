// Package ocr inserts text recognized in an uploaded image into the note.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrNoImage indicates an upload without image data.
var ErrNoImage = errors.New("ocr no image")

// Input is a single image to recognize.
type Input struct {
	Image     []byte
	Languages []string
}

// Result is the recognized text of an image.
type Result struct {
	Text       string
	Confidence float64
}

// Engine recognizes text in images.
type Engine interface {
	Recognize(ctx context.Context, in Input) (Result, error)
}

// Surface is the document the recognized text is appended to.
type Surface interface {
	Markup() string
	SetMarkup(markup string)
	Replace(markup string)
}

// ScanningMarkup is shown at the end of the document while recognition runs.
const ScanningMarkup = `<div style="color:blue; font-style:italic;">[Scanning Image... Please Wait]</div>`

// Inserter runs OCR and appends the extracted text to the document.
type Inserter struct {
	engine    Engine
	surface   Surface
	languages []string
}

func NewInserter(engine Engine, surface Surface, languages []string) *Inserter {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Inserter{engine: engine, surface: surface, languages: languages}
}

// Insert recognizes image and appends the text to the document. The scanning
// placeholder is removed from whatever the document holds once recognition
// ends, so edits made meanwhile are kept. On failure only the placeholder is
// removed. Both outcomes notify the document's listener.
func (i *Inserter) Insert(ctx context.Context, image []byte) (Result, error) {
	if len(image) == 0 {
		return Result{}, ErrNoImage
	}

	i.surface.SetMarkup(i.surface.Markup() + ScanningMarkup)

	result, err := i.engine.Recognize(ctx, Input{Image: image, Languages: i.languages})
	current := withoutScanning(i.surface.Markup())
	if err != nil {
		i.surface.Replace(current)
		return Result{}, fmt.Errorf("ocr failed: %w", err)
	}

	i.surface.Replace(current + ExtractedMarkup(result.Text))
	return result, nil
}

func withoutScanning(markup string) string {
	idx := strings.LastIndex(markup, ScanningMarkup)
	if idx < 0 {
		return markup
	}
	return markup[:idx] + markup[idx+len(ScanningMarkup):]
}

// ExtractedMarkup formats recognized text for insertion into the document.
func ExtractedMarkup(text string) string {
	return "<br><hr><p><strong>[Extracted Text]:</strong> " + html.EscapeString(text) + "</p>"
}
