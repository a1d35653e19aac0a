package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_Create(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, Contact{First: "Ada", Last: "Lovelace"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected generated ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	retrieved, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.First != "Ada" {
		t.Errorf("Expected first name Ada, got %s", retrieved.First)
	}
}

func TestMemoryStore_CreateEmptyYieldsDistinctIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, _ := store.Create(ctx, Contact{})
	b, _ := store.Create(ctx, Contact{})
	if a.ID == b.ID {
		t.Errorf("Expected distinct IDs, both were %s", a.ID)
	}

	all, _ := store.List(ctx, "")
	if len(all) != 2 {
		t.Errorf("Expected 2 contacts, got %d", len(all))
	}
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, Contact{ID: "1"}); err != nil {
		t.Fatalf("First Create failed: %v", err)
	}
	if _, err := store.Create(ctx, Contact{ID: "1"}); err == nil {
		t.Error("Expected error for duplicate contact, got nil")
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Contact{First: "Ada"})
	created.First = "Changed"

	retrieved, _ := store.Get(ctx, created.ID)
	if retrieved.First != "Ada" {
		t.Errorf("Stored contact was mutated through returned copy: %s", retrieved.First)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Contact{})
	created.First = "Grace"
	created.Favorite = true

	updated, err := store.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Update must keep CreatedAt")
	}

	retrieved, _ := store.Get(ctx, created.ID)
	if retrieved.First != "Grace" || !retrieved.Favorite {
		t.Errorf("Unexpected contact after update: %+v", retrieved)
	}

	if _, err := store.Update(ctx, Contact{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Contact{First: "Ada"})
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	all, _ := store.List(ctx, "")
	for _, c := range all {
		if c.ID == created.ID {
			t.Error("Deleted contact still listed")
		}
	}

	if err := store.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_ListOrderAndQuery(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []Contact{
		{ID: "3", First: "Grace", Last: "Hopper", CreatedAt: base},
		{ID: "1", First: "Ada", Last: "Lovelace", CreatedAt: base},
		{ID: "2", First: "Alan", Last: "Turing", CreatedAt: base},
		{ID: "4", First: "Barbara", Last: "hopper", CreatedAt: base.Add(time.Second)},
	}
	for _, c := range seed {
		if _, err := store.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, _ := store.List(ctx, "")
	wantOrder := []string{"3", "4", "1", "2"}
	if len(all) != len(wantOrder) {
		t.Fatalf("Expected %d contacts, got %d", len(wantOrder), len(all))
	}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("List()[%d].ID = %s, want %s", i, all[i].ID, id)
		}
	}

	matched, _ := store.List(ctx, "HOP")
	if len(matched) != 2 {
		t.Errorf("Expected 2 matches for HOP, got %d", len(matched))
	}

	none, _ := store.List(ctx, "zz")
	if len(none) != 0 {
		t.Errorf("Expected no matches for zz, got %d", len(none))
	}
}

func TestMemoryStore_Concurrency(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	numGoroutines := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Create(ctx, Contact{})
		}()
	}

	wg.Wait()

	all, _ := store.List(ctx, "")
	if len(all) != numGoroutines {
		t.Errorf("Expected %d contacts, got %d", numGoroutines, len(all))
	}
}
