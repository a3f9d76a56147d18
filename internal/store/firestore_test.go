package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/i474232898/angin-nusantara/internal/cities"
)

// These tests need a running Firestore emulator, e.g.
// `gcloud emulators firestore start --host-port=localhost:8686` and
// FIRESTORE_EMULATOR_HOST=localhost:8686.
func newEmulatorStore(t *testing.T) *FirestoreStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := NewFirestoreClient(context.Background(), "angin-nusantara-test", "")
	if err != nil {
		t.Fatalf("NewFirestoreClient() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewFirestoreStore(client)
}

func TestFirestoreStoreLifecycle(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	user := fmt.Sprintf("user-%d", time.Now().UnixNano())
	base := time.Now().UTC().Truncate(time.Millisecond)

	first, err := s.Create(ctx, newCity(user, "Jakarta", base))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := s.Create(ctx, newCity(user, "Jakarta", base)); !errors.Is(err, cities.ErrDuplicate) {
		t.Fatalf("duplicate Create() error = %v", err)
	}
	second, err := s.Create(ctx, newCity(user, "Bandung", base.Add(time.Second)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := s.FindByName(ctx, user, "Jakarta")
	if err != nil || found == nil || found.ID != first.ID {
		t.Fatalf("FindByName() = %+v, %v", found, err)
	}

	list, err := s.ListByUser(ctx, user)
	if err != nil || len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("ListByUser() = %+v, %v", list, err)
	}

	if err := s.UpdateWeather(ctx, first.ID, cities.WeatherData{Temperature: 30}, base.Add(time.Minute)); err != nil {
		t.Fatalf("UpdateWeather() error = %v", err)
	}
	got, err := s.Get(ctx, first.ID)
	if err != nil || got.Weather.Temperature != 30 {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, first.ID); !errors.Is(err, cities.ErrNotFound) {
		t.Fatalf("Get(deleted) error = %v", err)
	}
	if n, _ := s.CountByUser(ctx, user); n != 1 {
		t.Fatalf("CountByUser() = %d, want 1", n)
	}
}
