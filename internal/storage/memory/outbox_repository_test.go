package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage"
)

func TestOutboxRepository_EnqueueAndPull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewOutboxRepository()

	first, err := repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: "order", AggregateID: "o1", EventType: "order.created", Payload: []byte("{}")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Fatal("enqueue must assign an id")
	}

	second, _ := repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: "order", AggregateID: "o2", EventType: "order.created", Payload: []byte("{}")})

	pending, err := repo.PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	limited, _ := repo.PullPending(ctx, 1)
	if len(limited) != 1 {
		t.Fatalf("limit must cap the batch, got %d", len(limited))
	}

	if err := repo.MarkSent(ctx, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.MarkFailed(ctx, second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, _ = repo.PullPending(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("sent/failed messages must not be pending, got %d", len(pending))
	}

	stats, _ := repo.Stats(ctx)
	if stats.PendingCount != 0 {
		t.Fatalf("expected empty backlog, got %d", stats.PendingCount)
	}

	if err := repo.MarkSent(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected storage.ErrNotFound, got %v", err)
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewOutboxRepository()

	_, _ = repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: "order", AggregateID: "o1", EventType: "order.created", Payload: []byte("{}")})
	_, _ = repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: "order", AggregateID: "o2", EventType: "order.created", Payload: []byte("{}")})

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Fatal("oldest pending timestamp must be set")
	}
}
