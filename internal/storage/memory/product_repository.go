package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage"
)

// ProductRepository — in-memory реализация domain.ProductRepository.
type ProductRepository struct {
	store *Store[domain.Product]
	// createMu сериализует проверку уникальности SKU с последующей вставкой.
	createMu sync.Mutex
}

// NewProductRepository создаёт пустой каталог.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{store: NewStore[domain.Product]()}
}

// Create сохраняет продукт, отклоняя коллизию SKU.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	r.createMu.Lock()
	defer r.createMu.Unlock()

	_, err := r.store.First(ctx, func(p domain.Product) bool {
		return p.SKU == product.SKU
	})
	if err == nil {
		return domain.ErrDuplicateSKU
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if err := r.store.Add(ctx, product); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return domain.ErrDuplicateEntity
		}
		return err
	}
	return nil
}

// Get возвращает продукт или ErrProductNotFound.
func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	product, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return product, nil
}

// List возвращает продукты каталога.
func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	return r.store.GetFiltered(ctx, func(p domain.Product) bool {
		return !activeOnly || p.Active
	})
}

// Update перезаписывает продукт.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	if err := r.store.Update(ctx, product); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}
	return nil
}

// DecrementStock условно списывает сток под write-lock'ом store:
// проверка остатка и запись неразделимы, сток не уходит в минус.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID string, qty int32) error {
	if qty <= 0 {
		return domain.ErrItemQtyInvalid
	}
	err := r.store.Apply(ctx, productID, func(p domain.Product) (domain.Product, error) {
		if p.StockQuantity() < qty {
			return domain.Product{}, domain.ErrInsufficientStock
		}
		if err := p.SetStock(p.StockQuantity() - qty); err != nil {
			return domain.Product{}, err
		}
		return p, nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrProductNotFound
	}
	return err
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
