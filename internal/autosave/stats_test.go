package autosave_test

import (
	"strings"
	"testing"

	"giganticwit/api/internal/autosave"
	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"only spaces", "  ", 0},
		{"runs of spaces", "a b  c", 3},
		{"leading and trailing", "  hello world \n", 2},
		{"tabs and newlines", "one\ttwo\nthree", 3},
		{"single word", "word", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, autosave.WordCount(tt.text))
		})
	}
}

func TestCharCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, autosave.CharCount(""))
	assert.Equal(t, 4, autosave.CharCount(" ab "), "untrimmed text is counted")
	assert.Equal(t, 5, autosave.CharCount("héllo"), "characters, not bytes")
}

func TestStoragePercent(t *testing.T) {
	t.Parallel()

	t.Run("fifty thousand bytes of five million", func(t *testing.T) {
		t.Parallel()
		markup := strings.Repeat("x", 50_000)
		assert.Equal(t, 1.00, autosave.StoragePercent(markup, autosave.DefaultCapacity))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		t.Parallel()
		// 1234 / 5e6 * 100 = 0.02468
		assert.Equal(t, 0.02, autosave.StoragePercent(strings.Repeat("x", 1234), autosave.DefaultCapacity))
		// 2500 / 5e6 * 100 = 0.05
		assert.Equal(t, 0.05, autosave.StoragePercent(strings.Repeat("x", 2500), autosave.DefaultCapacity))
	})

	t.Run("not clamped above one hundred", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 150.0, autosave.StoragePercent(strings.Repeat("x", 150), 100))
	})

	t.Run("counts bytes of multibyte markup", func(t *testing.T) {
		t.Parallel()
		// "é" is two bytes in UTF-8.
		assert.Equal(t, 2.0, autosave.StoragePercent("é", 100))
	})

	t.Run("empty and zero capacity", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, autosave.StoragePercent("", autosave.DefaultCapacity))
		assert.Equal(t, 0.0, autosave.StoragePercent("abc", 0))
	})
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	stats := autosave.ComputeStats("hello world", "<p>hello world</p>", 100)
	assert.Equal(t, autosave.Stats{Words: 2, Chars: 11, StoragePercent: 18}, stats)
}
