package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "wealthway.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "wealthway_theme"); ok {
		t.Fatalf("expected empty store")
	}
	if err := s.Set(ctx, "wealthway_theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "wealthway_transactions", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok, _ := reopened.Get(ctx, "wealthway_theme"); !ok || v != "dark" {
		t.Fatalf("unexpected theme %q ok=%v", v, ok)
	}
	if v, ok, _ := reopened.Get(ctx, "wealthway_transactions"); !ok || v != "[]" {
		t.Fatalf("unexpected transactions %q ok=%v", v, ok)
	}
}

func TestFileStoreMalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wealthway.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, _ := s.Get(context.Background(), "anything"); ok {
		t.Fatalf("expected empty store for malformed file")
	}
	if err := s.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set over malformed file: %v", err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "wealthway.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Set(context.Background(), "k", "v"); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the data file, found %d entries", len(entries))
	}
}
