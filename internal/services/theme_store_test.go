package services

import (
	"context"
	"testing"

	"wealthway/internal/core"
	"wealthway/internal/storage"
	"wealthway/internal/storage/memory"
)

func TestThemeStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unset by default", func(t *testing.T) {
		s := NewThemeStore(memory.New())
		if _, ok := s.Get(ctx); ok {
			t.Fatal("expected no theme")
		}
	})

	t.Run("invalid stored value is unset", func(t *testing.T) {
		s := NewThemeStore(memory.NewWithEntries(map[string]string{storage.ThemeKey: "sepia"}))
		if _, ok := s.Get(ctx); ok {
			t.Fatal("expected invalid theme to be ignored")
		}
	})

	t.Run("toggle uses fallback then persists", func(t *testing.T) {
		kv := memory.New()
		s := NewThemeStore(kv)

		got, err := s.Toggle(ctx, core.Light)
		if err != nil || got != core.Dark {
			t.Fatalf("Toggle() = %v, %v", got, err)
		}
		if raw, _, _ := kv.Get(ctx, storage.ThemeKey); raw != "dark" {
			t.Fatalf("persisted %q", raw)
		}

		got, _ = s.Toggle(ctx, core.Light)
		if got != core.Light {
			t.Fatalf("second Toggle() = %v", got)
		}
	})

	t.Run("set rejects unknown theme", func(t *testing.T) {
		s := NewThemeStore(memory.New())
		if err := s.Set(ctx, "sepia"); err == nil {
			t.Fatal("expected error")
		}
	})
}
