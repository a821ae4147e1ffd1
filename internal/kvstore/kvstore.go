// Package kvstore provides the durable string-keyed storage used to persist
// the note and its preferences.
package kvstore

import (
	"context"
	"errors"
)

const (
	// ContentKey holds the serialized document markup.
	ContentKey = "gw_content"
	// ThemeKey holds the selected theme name.
	ThemeKey = "gw_theme"
)

var (
	// ErrQuotaExceeded indicates the backend refused a write because it is full.
	ErrQuotaExceeded = errors.New("kvstore quota exceeded")
	// ErrUnknownBackend indicates the configured backend name is not supported.
	ErrUnknownBackend = errors.New("kvstore unknown backend")
)

// Store is a synchronous key-value store. Get reports whether the key was present.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
