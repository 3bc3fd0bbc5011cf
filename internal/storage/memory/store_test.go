package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/expirians/storefront/internal/storage"
)

type testEntity struct {
	ID    string
	Value int
	Tag   string
}

func (e testEntity) EntityID() string { return e.ID }

func TestStore_AddAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore[testEntity]()

	if err := store.Add(ctx, testEntity{ID: "a", Value: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, testEntity{ID: "a", Value: 2}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := store.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != 1 {
		t.Fatalf("expected value 1, got %d", got.Value)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore[testEntity]()

	if err := store.Update(ctx, testEntity{ID: "a"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update of missing entity: expected ErrNotFound, got %v", err)
	}

	_ = store.Add(ctx, testEntity{ID: "a", Value: 1})
	if err := store.Update(ctx, testEntity{ID: "a", Value: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := store.GetByID(ctx, "a")
	if got.Value != 7 {
		t.Fatalf("expected value 7, got %d", got.Value)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetFilteredAndFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore[testEntity]()
	_ = store.Add(ctx, testEntity{ID: "a", Tag: "red"})
	_ = store.Add(ctx, testEntity{ID: "b", Tag: "blue"})
	_ = store.Add(ctx, testEntity{ID: "c", Tag: "red"})

	reds, err := store.GetFiltered(ctx, func(e testEntity) bool { return e.Tag == "red" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reds) != 2 {
		t.Fatalf("expected 2 red entities, got %d", len(reds))
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(all))
	}

	blue, err := store.First(ctx, func(e testEntity) bool { return e.Tag == "blue" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blue.ID != "b" {
		t.Fatalf("expected entity b, got %s", blue.ID)
	}

	if _, err := store.First(ctx, func(e testEntity) bool { return e.Tag == "green" }); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UnknownRelation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore[testEntity]()
	_ = store.Add(ctx, testEntity{ID: "a"})

	if _, err := store.GetByID(ctx, "a", storage.Relation("bogus")); !errors.Is(err, storage.ErrUnknownRelation) {
		t.Fatalf("expected ErrUnknownRelation, got %v", err)
	}
}

func TestStore_RelationLoader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore[testEntity]()
	store.RegisterRelation("tag", func(_ context.Context, e *testEntity) error {
		e.Tag = "loaded"
		return nil
	})
	_ = store.Add(ctx, testEntity{ID: "a"})

	plain, err := store.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain.Tag != "" {
		t.Fatal("relation must not load unless requested")
	}

	loaded, err := store.GetByID(ctx, "a", "tag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Tag != "loaded" {
		t.Fatalf("expected loaded relation, got %q", loaded.Tag)
	}
}

func TestStore_Apply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore[testEntity]()
	_ = store.Add(ctx, testEntity{ID: "a", Value: 10})

	err := store.Apply(ctx, "a", func(e testEntity) (testEntity, error) {
		e.Value -= 3
		return e, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := store.GetByID(ctx, "a")
	if got.Value != 7 {
		t.Fatalf("expected value 7, got %d", got.Value)
	}

	boom := errors.New("boom")
	err = store.Apply(ctx, "a", func(e testEntity) (testEntity, error) {
		e.Value = 0
		return e, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	got, _ = store.GetByID(ctx, "a")
	if got.Value != 7 {
		t.Fatal("failed apply must not mutate stored entity")
	}

	if err := store.Apply(ctx, "missing", func(e testEntity) (testEntity, error) { return e, nil }); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
