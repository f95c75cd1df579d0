package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

func newEntry(key string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		Key:       key,
		Response:  "SUMMARY: cached",
		ModelUsed: "test-model",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// exerciseRepository runs the shared contract against any repository
func exerciseRepository(t *testing.T, repo core.CacheRepository) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := repo.Set(ctx, newEntry("fresh", time.Hour)); err != nil {
		t.Fatalf("Set(fresh) failed: %v", err)
	}
	got, err := repo.Get(ctx, "fresh")
	if err != nil {
		t.Fatalf("Get(fresh) failed: %v", err)
	}
	if got.Response != "SUMMARY: cached" || got.ModelUsed != "test-model" {
		t.Errorf("Get(fresh) = %+v", got)
	}

	updated := newEntry("fresh", time.Hour)
	updated.Response = "SUMMARY: updated"
	if err := repo.Set(ctx, updated); err != nil {
		t.Fatalf("Set(update) failed: %v", err)
	}
	if got, _ := repo.Get(ctx, "fresh"); got == nil || got.Response != "SUMMARY: updated" {
		t.Errorf("expected overwritten entry, got %+v", got)
	}

	if err := repo.Set(ctx, newEntry("stale", -time.Minute)); err != nil {
		t.Fatalf("Set(stale) failed: %v", err)
	}
	if _, err := repo.Get(ctx, "stale"); !errors.Is(err, ErrExpired) {
		t.Errorf("Get(stale) error = %v, want ErrExpired", err)
	}

	if err := repo.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, err := repo.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(stale) after cleanup error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, "fresh"); err != nil {
		t.Errorf("cleanup removed a live entry: %v", err)
	}

	if err := repo.Delete(ctx, "fresh"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "fresh"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(fresh) after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(zap.NewNop(), 0)
	defer cache.Stop()

	exerciseRepository(t, cache)
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	cache := NewMemoryCache(nil, 0)
	defer cache.Stop()

	entry := newEntry("k", time.Hour)
	if err := cache.Set(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	entry.Response = "mutated"

	got, err := cache.Get(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	if got.Response != "SUMMARY: cached" {
		t.Errorf("stored entry aliased caller's value: %q", got.Response)
	}
}

func TestMemoryCache_BackgroundCleanup(t *testing.T) {
	cache := NewMemoryCache(zap.NewNop(), 10*time.Millisecond)
	defer cache.Stop()

	if err := cache.Set(context.Background(), newEntry("stale", -time.Minute)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for cache.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("background cleanup never removed the expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSQLiteCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := NewSQLiteCache(path, zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewSQLiteCache failed: %v", err)
	}
	defer cache.Stop()

	exerciseRepository(t, cache)
}

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	first, err := NewSQLiteCache(path, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(context.Background(), newEntry("k", time.Hour)); err != nil {
		t.Fatal(err)
	}
	first.Stop()

	second, err := NewSQLiteCache(path, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Stop()

	got, err := second.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.ModelUsed != "test-model" {
		t.Errorf("ModelUsed = %q", got.ModelUsed)
	}
}
