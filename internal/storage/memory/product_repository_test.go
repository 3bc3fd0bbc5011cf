package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/expirians/storefront/internal/domain"
)

func mustProduct(t *testing.T, id, sku string, price int64, stock int32) domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, sku, "", "Widget "+id, "", price, stock, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestProductRepository_DuplicateSKU(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewProductRepository()

	if err := repo.Create(ctx, mustProduct(t, "p1", "SKU-1", 100, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Create(ctx, mustProduct(t, "p2", "SKU-1", 200, 5)); !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestProductRepository_DecrementStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewProductRepository()
	_ = repo.Create(ctx, mustProduct(t, "p1", "SKU-1", 100, 5))

	if err := repo.DecrementStock(ctx, "p1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.Get(ctx, "p1")
	if got.StockQuantity() != 2 {
		t.Fatalf("expected stock 2, got %d", got.StockQuantity())
	}

	if err := repo.DecrementStock(ctx, "p1", 3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	got, _ = repo.Get(ctx, "p1")
	if got.StockQuantity() != 2 {
		t.Fatal("failed decrement must not change stock")
	}

	if err := repo.DecrementStock(ctx, "missing", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.DecrementStock(ctx, "p1", 0); !errors.Is(err, domain.ErrItemQtyInvalid) {
		t.Fatalf("expected ErrItemQtyInvalid, got %v", err)
	}
}

func TestProductRepository_ConcurrentDecrement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewProductRepository()
	_ = repo.Create(ctx, mustProduct(t, "p1", "SKU-1", 100, 50))

	const workers = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock(ctx, "p1", 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 50 {
		t.Fatalf("expected exactly 50 successful decrements, got %d", succeeded)
	}
	got, _ := repo.Get(ctx, "p1")
	if got.StockQuantity() != 0 {
		t.Fatalf("expected stock 0, got %d", got.StockQuantity())
	}
}

func TestProductRepository_ListActiveOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewProductRepository()

	active := mustProduct(t, "p1", "SKU-1", 100, 5)
	disabled := mustProduct(t, "p2", "SKU-2", 100, 5)
	disabled.Deactivate()
	_ = repo.Create(ctx, active)
	_ = repo.Create(ctx, disabled)

	onlyActive, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(onlyActive) != 1 || onlyActive[0].ID != "p1" {
		t.Fatalf("expected only active product p1, got %v", onlyActive)
	}

	all, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}
}
