package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage"
)

// OrderRepository — in-memory реализация domain.OrderRepository поверх
// обобщённого store. Позиции заказа хранятся внутри агрегата, поэтому
// загрузчик тега items тривиален; продукт позиции догружается из каталога.
type OrderRepository struct {
	store *Store[domain.Order]
}

// NewOrderRepository создаёт репозиторий заказов и регистрирует загрузчики
// связей. products нужен для тега items.product.
func NewOrderRepository(products *ProductRepository) *OrderRepository {
	store := NewStore(WithClone(cloneOrder))

	// Позиции создаются вместе с заказом и уже лежат в агрегате.
	store.RegisterRelation(domain.RelationOrderItems, func(context.Context, *domain.Order) error {
		return nil
	})
	store.RegisterRelation(domain.RelationItemProducts, func(ctx context.Context, order *domain.Order) error {
		for i := range order.Items {
			product, err := products.Get(ctx, order.Items[i].ProductID)
			if err != nil {
				// Ссылка на удалённый продукт невозможна: каталог использует
				// soft-disable, а не физическое удаление.
				return err
			}
			order.Items[i].Product = &product
		}
		return nil
	})

	return &OrderRepository{store: store}
}

// cloneOrder делает глубокую копию: срез позиций не должен делить backing
// array с хранимым значением.
func cloneOrder(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Product = nil
	}
	o.Items = items
	return o
}

// Create сохраняет новый заказ вместе с позициями.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	if err := r.store.Add(ctx, order); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return domain.ErrDuplicateEntity
		}
		return err
	}
	return nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *OrderRepository) Get(ctx context.Context, id string, relations ...storage.Relation) (domain.Order, error) {
	order, err := r.store.GetByID(ctx, id, relations...)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	return order, nil
}

// List возвращает заказы по фильтру, свежие первыми.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter, relations ...storage.Relation) ([]domain.Order, error) {
	orders, err := r.store.GetFiltered(ctx, func(o domain.Order) bool {
		return filter.Matches(&o)
	}, relations...)
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

// UpdateStatus перезаписывает статус с проверкой версии (optimistic locking).
func (r *OrderRepository) UpdateStatus(ctx context.Context, order domain.Order) error {
	err := r.store.Apply(ctx, order.ID, func(current domain.Order) (domain.Order, error) {
		if current.Version != order.Version {
			return domain.Order{}, domain.ErrOrderVersionConflict
		}
		current.Status = order.Status
		current.UpdatedAt = order.UpdatedAt
		// Инкрементируем версию перед сохранением.
		current.Version++
		return current, nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrOrderNotFound
	}
	return err
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
