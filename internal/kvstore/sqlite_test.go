package kvstore

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, ContentKey); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, ContentKey, "<p>first</p>"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, ContentKey, "<p>second</p>"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	value, ok, err := store.Get(ctx, ContentKey)
	if err != nil || !ok || value != "<p>second</p>" {
		t.Fatalf("expected second, got %q ok=%v err=%v", value, ok, err)
	}
	if err := store.Remove(ctx, ContentKey); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, ContentKey); ok {
		t.Error("expected key to be removed")
	}
	if err := store.Remove(ctx, ContentKey); err != nil {
		t.Errorf("removing a missing key should succeed, got %v", err)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "notes.db")

	store, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := store.Set(ctx, ContentKey, "<p>kept</p>"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, ContentKey)
	if err != nil || !ok || value != "<p>kept</p>" {
		t.Fatalf("expected persisted value after reopen, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
