// Package theme persists the light/dark display preference.
package theme

import (
	"context"
	"fmt"

	"giganticwit/api/internal/kvstore"
)

type Theme string

const (
	Light Theme = "Light"
	Dark  Theme = "Dark"
)

// Service reads and toggles the stored theme.
type Service struct {
	store kvstore.Store
}

func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// Current returns the stored theme. Anything other than Dark is Light.
func (s *Service) Current(ctx context.Context) (Theme, error) {
	value, ok, err := s.store.Get(ctx, kvstore.ThemeKey)
	if err != nil {
		return Light, fmt.Errorf("load theme: %w", err)
	}
	if ok && Theme(value) == Dark {
		return Dark, nil
	}
	return Light, nil
}

// Toggle flips the theme and stores the new value.
func (s *Service) Toggle(ctx context.Context) (Theme, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return current, err
	}
	next := Dark
	if current == Dark {
		next = Light
	}
	if err := s.store.Set(ctx, kvstore.ThemeKey, string(next)); err != nil {
		return current, fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}
