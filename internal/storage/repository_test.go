package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRepositoryGetSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "wealthway.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	if _, ok, err := repo.Get(ctx, TransactionsKey); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := repo.Set(ctx, TransactionsKey, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, TransactionsKey, `[{"id":"1"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Set(ctx, ThemeKey, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}

	v, ok, err := repo.Get(ctx, TransactionsKey)
	if err != nil || !ok || v != `[{"id":"1"}]` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", v, ok, err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSQLiteRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wealthway.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Set(ctx, ThemeKey, "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	repo.Close()

	// Reopening runs migrations again, which must be a no-op.
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	v, ok, err := repo.Get(ctx, ThemeKey)
	if err != nil || !ok || v != "light" {
		t.Fatalf("unexpected get after reopen: %q ok=%v err=%v", v, ok, err)
	}
}
