package services

import (
	"context"
	"fmt"
	"log/slog"

	"wealthway/internal/core"
	"wealthway/internal/storage"
)

// ThemeStore persists the light/dark preference under storage.ThemeKey.
type ThemeStore struct {
	kv storage.KeyValue
}

func NewThemeStore(kv storage.KeyValue) *ThemeStore {
	return &ThemeStore{kv: kv}
}

// Get returns the stored theme and whether one was set. Unreadable or
// unknown values count as unset.
func (s *ThemeStore) Get(ctx context.Context) (core.Theme, bool) {
	raw, ok, err := s.kv.Get(ctx, storage.ThemeKey)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read theme", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return core.ParseTheme(raw)
}

func (s *ThemeStore) Set(ctx context.Context, theme core.Theme) error {
	if _, ok := core.ParseTheme(string(theme)); !ok {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := s.kv.Set(ctx, storage.ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

// Toggle flips the effective theme (stored value, else fallback), persists
// the result and returns it.
func (s *ThemeStore) Toggle(ctx context.Context, fallback core.Theme) (core.Theme, error) {
	current, ok := s.Get(ctx)
	if !ok {
		current = fallback
	}
	next := current.Toggle()
	if err := s.Set(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}
