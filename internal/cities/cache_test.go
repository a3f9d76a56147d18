package cities

import (
	"context"
	"testing"
	"time"

	"github.com/i474232898/angin-nusantara/internal/kv"
)

func TestListCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	cache := NewListCache(store)

	got, err := cache.Load(ctx, "u1")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Load() on miss = %v, %v; want empty list", got, err)
	}

	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	list := []SavedCity{{
		ID:          "c1",
		UserID:      "u1",
		CityName:    "Jakarta",
		CountryCode: "ID",
		Weather:     WeatherData{Temperature: 31, Humidity: 70, WindSpeed: 3.3, Icon: "04d"},
		CreatedAt:   created,
		LastUpdated: created,
	}}
	if err := cache.Replace(ctx, "u1", list); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "cities_u1"); !ok {
		t.Fatal("expected entry under cities_u1")
	}

	got, err = cache.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" || !got[0].CreatedAt.Equal(created) || got[0].Weather != list[0].Weather {
		t.Fatalf("Load() = %+v", got)
	}

	if other, _ := cache.Load(ctx, "u2"); len(other) != 0 {
		t.Fatalf("u2 should not see u1's list: %+v", other)
	}

	if err := cache.Invalidate(ctx, "u1"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if got, _ := cache.Load(ctx, "u1"); len(got) != 0 {
		t.Fatalf("Load() after Invalidate = %+v", got)
	}
}

func TestListCacheReplaceNilStoresEmptyList(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	cache := NewListCache(store)

	if err := cache.Replace(ctx, "u1", nil); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	raw, ok, _ := store.Get(ctx, CacheKey("u1"))
	if !ok || raw != "[]" {
		t.Fatalf("stored %q, want []", raw)
	}
}

func TestListCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	store.Set(ctx, CacheKey("u1"), "{not json")

	if _, err := NewListCache(store).Load(ctx, "u1"); err == nil {
		t.Fatal("expected decode error")
	}
}
