package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	sqliteStore, err := NewStore(ctx, FactoryConfig{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "sub", "cache.db")})
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}

	pebbleStore, err := NewStore(ctx, FactoryConfig{Backend: BackendPebble, Path: t.TempDir()})
	if err != nil {
		t.Fatalf("pebble store: %v", err)
	}

	stores := map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendSQLite: sqliteStore,
		BackendPebble: pebbleStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStores_UpsertLoadDelete(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Upsert(ctx, Record{OfferID: "a", ItemGroupID: "g", Hash: "h1", UpdatedAt: at}); err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if err := s.Upsert(ctx, Record{OfferID: "b", Hash: "h2", UpdatedAt: at}); err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if err := s.Upsert(ctx, Record{OfferID: "a", ItemGroupID: "g", Hash: "h3", UpdatedAt: at}); err != nil {
				t.Fatalf("upsert overwrite: %v", err)
			}

			all, err := s.LoadAll(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(all) != 2 {
				t.Fatalf("expected 2 records, got %d", len(all))
			}
			if all["a"].Hash != "h3" || all["a"].ItemGroupID != "g" {
				t.Fatalf("unexpected record a: %+v", all["a"])
			}
			if !all["a"].UpdatedAt.Equal(at) {
				t.Fatalf("expected updated_at %v, got %v", at, all["a"].UpdatedAt)
			}

			if err := s.Delete(ctx, "b"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := s.Delete(ctx, "missing"); err != nil {
				t.Fatalf("delete of missing key should be a no-op: %v", err)
			}

			all, err = s.LoadAll(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if _, ok := all["b"]; ok || len(all) != 1 {
				t.Fatalf("expected only a to remain, got %v", all)
			}
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewStore(ctx, FactoryConfig{Backend: BackendSQLite, Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Upsert(ctx, Record{OfferID: "a", Hash: "h"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	_ = s.Close()

	s, err = NewStore(ctx, FactoryConfig{Backend: BackendSQLite, Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	all, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if all["a"].Hash != "h" {
		t.Fatalf("expected persisted hash h, got %+v", all["a"])
	}
}

func TestPebbleStore_DefaultsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	ps, err := NewPebbleStore(t.TempDir())
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	t.Cleanup(func() { _ = ps.Close() })

	if err := ps.Upsert(ctx, Record{OfferID: "k", Hash: "h"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	all, err := ps.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r := all["k"]; r.Hash != "h" || r.UpdatedAt.IsZero() {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Close()

	if _, err := s.LoadAll(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewStore_MigrationsDirOverride(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	ddl := "CREATE TABLE sync_cache (offer_id TEXT PRIMARY KEY, item_group_id TEXT NOT NULL DEFAULT '', hash TEXT NOT NULL, updated_at TIMESTAMP NOT NULL);"
	if err := os.WriteFile(filepath.Join(dir, "001_cache.sql"), []byte(ddl), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	s, err := NewStore(ctx, FactoryConfig{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "cache.db"), MigrationsDir: dir})
	if err != nil {
		t.Fatalf("open with migrations dir: %v", err)
	}
	defer s.Close()
	if err := s.Upsert(ctx, Record{OfferID: "a", Hash: "h"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	broken := t.TempDir()
	if err := os.WriteFile(filepath.Join(broken, "001_broken.sql"), []byte("NOT SQL AT ALL"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	if _, err := NewStore(ctx, FactoryConfig{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "cache.db"), MigrationsDir: broken}); err == nil {
		t.Fatalf("expected error from broken migrations dir")
	}
}

func TestNewStore_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  FactoryConfig
	}{
		{"mysql without dsn", FactoryConfig{Backend: BackendMySQL}},
		{"sqlite without path", FactoryConfig{Backend: BackendSQLite}},
		{"pebble without path", FactoryConfig{Backend: BackendPebble}},
		{"unknown backend", FactoryConfig{Backend: "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(ctx, tt.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestHashes(t *testing.T) {
	got := Hashes(map[string]Record{"a": {OfferID: "a", Hash: "1"}})
	if len(got) != 1 || got["a"] != "1" {
		t.Fatalf("unexpected hashes: %v", got)
	}
}
