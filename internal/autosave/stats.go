package autosave

import (
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultCapacity is the nominal storage ceiling, in bytes, used for the
// storage usage estimate.
const DefaultCapacity = 5_000_000

// Stats is the live document summary published on every change.
type Stats struct {
	Words          int     `json:"words"`
	Chars          int     `json:"chars"`
	StoragePercent float64 `json:"storagePercent"`
}

// WordCount counts maximal whitespace-delimited runs in text.
func WordCount(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}

// CharCount counts the characters of the untrimmed text.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// StoragePercent returns the byte size of markup as a percentage of capacity,
// rounded to two decimals. The result is not clamped at 100.
func StoragePercent(markup string, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	pct := float64(len(markup)) / float64(capacity) * 100
	return math.Round(pct*100) / 100
}

// ComputeStats derives Stats from a plain-text and a markup rendition of the
// same document.
func ComputeStats(text, markup string, capacity int) Stats {
	return Stats{
		Words:          WordCount(text),
		Chars:          CharCount(text),
		StoragePercent: StoragePercent(markup, capacity),
	}
}
