package export

import (
	"context"
	"fmt"
	"html/template"
	"time"
)

const defaultTimeout = 30 * time.Second

// Service provides document export functionality
type Service struct {
	timeout time.Duration
	now     func() time.Time
}

// NewService creates a new export service. timeout bounds each PDF or DOCX
// conversion; zero selects 30 seconds.
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{timeout: timeout, now: time.Now}
}

// Export generates an export in the requested format
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	base := Filename(date)

	if req.Format == FormatMarkdown {
		return exportMarkdown(req.Markup, base)
	}

	html, err := RenderDocumentHTML(TemplateData{
		Title:       base,
		ContentHTML: template.HTML(req.Markup),
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	switch req.Format {
	case FormatPDF:
		return exportPDF(ctx, html, base)
	case FormatDOCX:
		return exportDOCX(ctx, html, base)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
}

// Filename returns the export base name for a date, e.g. GiganticWit_2026-10-16.
func Filename(date time.Time) string {
	return "GiganticWit_" + date.UTC().Format("2006-01-02")
}
