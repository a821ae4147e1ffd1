package mock

import (
	"context"

	"giganticwit/api/internal/kvstore"
)

var _ kvstore.Store = (*Store)(nil)

// Store is a mock implementation of kvstore.Store.
type Store struct {
	GetFn    func(ctx context.Context, key string) (string, bool, error)
	SetFn    func(ctx context.Context, key, value string) error
	RemoveFn func(ctx context.Context, key string) error
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return s.GetFn(ctx, key)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.SetFn(ctx, key, value)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.RemoveFn(ctx, key)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
