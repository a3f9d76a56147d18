package kv

import (
	"context"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want miss", ok, err)
	}

	if err := s.Set(ctx, "userData", `{"uid":"u1"}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := s.Get(ctx, "userData")
	if err != nil || !ok || v != `{"uid":"u1"}` {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}

	if err := s.Set(ctx, "userData", `{"uid":"u2"}`); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, _, _ := s.Get(ctx, "userData"); v != `{"uid":"u2"}` {
		t.Fatalf("overwrite not applied, got %q", v)
	}

	if err := s.Delete(ctx, "userData"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "userData"); ok {
		t.Fatal("key still present after Delete")
	}
	if err := s.Delete(ctx, "userData"); err != nil {
		t.Fatalf("Delete() of missing key error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "angin.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := s.Set(ctx, "cities_u1", "[]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "cities_u1")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("after reopen Get() = %q, %v, %v", v, ok, err)
	}
}
