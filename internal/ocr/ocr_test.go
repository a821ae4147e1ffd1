package ocr_test

import (
	"context"
	"errors"
	"testing"

	"giganticwit/api/internal/editor"
	"giganticwit/api/internal/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFunc func(ctx context.Context, in ocr.Input) (ocr.Result, error)

func (f engineFunc) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	return f(ctx, in)
}

func TestInsert(t *testing.T) {
	t.Parallel()

	t.Run("appends escaped text and notifies", func(t *testing.T) {
		t.Parallel()

		doc := editor.New()
		doc.SetMarkup("<p>before</p>")
		changes := 0
		doc.OnChange(func() { changes++ })

		var sawScanning bool
		var langs []string
		engine := engineFunc(func(_ context.Context, in ocr.Input) (ocr.Result, error) {
			sawScanning = doc.Markup() == "<p>before</p>"+ocr.ScanningMarkup
			langs = in.Languages
			return ocr.Result{Text: "a < b", Confidence: 0.9}, nil
		})

		result, err := ocr.NewInserter(engine, doc, nil).Insert(context.Background(), []byte{1, 2, 3})
		require.NoError(t, err)

		assert.True(t, sawScanning, "placeholder shown while scanning")
		assert.Equal(t, []string{"eng"}, langs)
		assert.Equal(t, "a < b", result.Text)
		assert.Equal(t, "<p>before</p><br><hr><p><strong>[Extracted Text]:</strong> a &lt; b</p>", doc.Markup())
		assert.Equal(t, 1, changes)
	})

	t.Run("restores document on failure", func(t *testing.T) {
		t.Parallel()

		doc := editor.New()
		doc.SetMarkup("<p>keep</p>")
		changes := 0
		doc.OnChange(func() { changes++ })

		engine := engineFunc(func(context.Context, ocr.Input) (ocr.Result, error) {
			return ocr.Result{}, errors.New("unreadable")
		})

		_, err := ocr.NewInserter(engine, doc, []string{"deu"}).Insert(context.Background(), []byte{1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ocr failed: unreadable")
		assert.Equal(t, "<p>keep</p>", doc.Markup())
		// The restored document is announced so a save of the placeholder is superseded.
		assert.Equal(t, 1, changes)
	})

	t.Run("keeps edits made during recognition", func(t *testing.T) {
		t.Parallel()

		doc := editor.New()
		doc.SetMarkup("<p>intro</p>")

		engine := engineFunc(func(context.Context, ocr.Input) (ocr.Result, error) {
			doc.Edit("<p>typed during scan</p>")
			return ocr.Result{Text: "scanned"}, nil
		})

		_, err := ocr.NewInserter(engine, doc, nil).Insert(context.Background(), []byte{1})
		require.NoError(t, err)
		assert.Equal(t, "<p>typed during scan</p><br><hr><p><strong>[Extracted Text]:</strong> scanned</p>", doc.Markup())
	})

	t.Run("keeps edits around the placeholder on failure", func(t *testing.T) {
		t.Parallel()

		doc := editor.New()
		doc.SetMarkup("<p>intro</p>")

		engine := engineFunc(func(context.Context, ocr.Input) (ocr.Result, error) {
			doc.SetMarkup(doc.Markup() + "<p>more</p>")
			return ocr.Result{}, errors.New("unreadable")
		})

		_, err := ocr.NewInserter(engine, doc, nil).Insert(context.Background(), []byte{1})
		require.Error(t, err)
		assert.Equal(t, "<p>intro</p><p>more</p>", doc.Markup())
	})

	t.Run("rejects empty upload", func(t *testing.T) {
		t.Parallel()

		doc := editor.New()
		engine := engineFunc(func(context.Context, ocr.Input) (ocr.Result, error) {
			t.Fatal("engine must not be called")
			return ocr.Result{}, nil
		})

		_, err := ocr.NewInserter(engine, doc, nil).Insert(context.Background(), nil)
		assert.ErrorIs(t, err, ocr.ErrNoImage)
	})
}
