package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/tabsplit/internal/session"
	"github.com/mmynk/tabsplit/internal/storage"
)

func TestMemoryStore(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	t.Run("Create and Get round trip", func(t *testing.T) {
		s := session.New(session.WithTitle("Dinner"))
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := store.Get(ctx, s.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != s {
			t.Error("Expected Get to return the registered session")
		}
	})

	t.Run("Create rejects duplicate IDs", func(t *testing.T) {
		s := session.New()
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := store.Create(ctx, s); err == nil {
			t.Error("Expected error for duplicate session")
		}
	})

	t.Run("Get unknown session", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete ends a session", func(t *testing.T) {
		s := session.New()
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := store.Delete(ctx, s.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, s.ID()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, s.ID()); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("Canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		if err := store.Create(canceled, session.New()); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := New()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	now := func() time.Time { return clock }

	stale := session.New(session.WithClock(now))
	clock = base.Add(time.Hour)
	fresh := session.New(session.WithClock(now))

	for _, s := range []*session.Session{stale, fresh} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	removed, err := store.Sweep(ctx, base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 session swept, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 live session, got %d", store.Len())
	}
	if _, err := store.Get(ctx, fresh.ID()); err != nil {
		t.Errorf("Expected fresh session to survive: %v", err)
	}
}
