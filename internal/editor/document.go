// Package editor holds the editable note document.
package editor

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Document is the single editable note, stored as HTML markup.
type Document struct {
	policy *bluemonday.Policy

	mu       sync.RWMutex
	markup   string
	onChange func()
}

func New() *Document {
	return &Document{policy: NewPolicy()}
}

// NewPolicy returns the sanitizer applied to user edits. It keeps the markup
// produced by the toolbar formatting commands and drops scripts and handlers.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("span", "div", "font", "u", "s", "strike", "sub", "sup", "hr", "br")
	p.AllowAttrs("color", "face", "size").OnElements("font")
	p.AllowStyles("color", "background-color", "text-align", "font-size", "font-family", "font-style", "font-weight").Globally()
	return p
}

// OnChange registers the listener notified after every edit. It replaces any
// earlier listener.
func (d *Document) OnChange(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

func (d *Document) Markup() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.markup
}

// SetMarkup replaces the markup verbatim without notifying the listener.
func (d *Document) SetMarkup(markup string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.markup = markup
}

// Restore loads persisted markup. It is sanitized like an edit but the
// listener is not notified.
func (d *Document) Restore(markup string) {
	d.SetMarkup(d.policy.Sanitize(markup))
}

// Edit applies a user edit: the markup is sanitized, stored and the listener
// notified. It returns the stored markup.
func (d *Document) Edit(markup string) string {
	clean := d.policy.Sanitize(markup)
	d.Replace(clean)
	return clean
}

// Replace stores trusted markup and notifies the listener.
func (d *Document) Replace(markup string) {
	d.mu.Lock()
	d.markup = markup
	fn := d.onChange
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Clear empties the document without notifying the listener.
func (d *Document) Clear() {
	d.SetMarkup("")
}

// PlainText returns the visible text of the document. Block elements and
// line breaks become newlines.
func (d *Document) PlainText() string {
	return PlainText(d.Markup())
}

var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "blockquote": {}, "div": {}, "dl": {}, "dt": {}, "dd": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "hr": {}, "li": {},
	"ol": {}, "p": {}, "pre": {}, "section": {}, "table": {}, "tr": {}, "ul": {},
}

// PlainText extracts the visible text from HTML markup. A block boundary
// becomes a newline only between two runs of text, so the result never ends
// with one unless the markup has a trailing <br>.
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	var w textWriter
	w.walk(doc.Find("body"))
	return w.b.String()
}

type textWriter struct {
	b            strings.Builder
	breakPending bool
}

func (w *textWriter) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		switch node.Type {
		case html.TextNode:
			w.text(node.Data)
		case html.ElementNode:
			name := goquery.NodeName(child)
			switch name {
			case "br":
				w.flushBreak()
				w.b.WriteString("\n")
				return
			case "script", "style", "template":
				return
			}
			_, block := blockElements[name]
			if block {
				w.breakPending = true
			}
			w.walk(child)
			if block {
				w.breakPending = true
			}
		}
	})
}

func (w *textWriter) text(s string) {
	if s == "" || (w.breakPending && strings.TrimSpace(s) == "") {
		return
	}
	w.flushBreak()
	w.b.WriteString(s)
}

func (w *textWriter) flushBreak() {
	if w.breakPending && w.b.Len() > 0 && !strings.HasSuffix(w.b.String(), "\n") {
		w.b.WriteString("\n")
	}
	w.breakPending = false
}
