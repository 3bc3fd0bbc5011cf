package memory

import (
	"context"
	"sync"

	"github.com/expirians/storefront/internal/domain"
)

// UnitOfWork — снапшотная единица работы для in-memory backend'а.
// Мьютекс сериализует все единицы работы, поэтому сценарий
// "прочитал сток — списал сток" не гонится между конкурентными заказами;
// при ошибке fn состояние всех хранилищ откатывается к снимку.
type UnitOfWork struct {
	mu        sync.Mutex
	orders    *OrderRepository
	products  *ProductRepository
	customers *CustomerRepository
	outbox    *OutboxRepository
}

// NewUnitOfWork связывает единицу работы с общими репозиториями.
func NewUnitOfWork(orders *OrderRepository, products *ProductRepository, customers *CustomerRepository, outbox *OutboxRepository) *UnitOfWork {
	return &UnitOfWork{
		orders:    orders,
		products:  products,
		customers: customers,
		outbox:    outbox,
	}
}

// Within исполняет fn атомарно относительно других единиц работы.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, r domain.Repositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	ordersSnap := u.orders.store.snapshot()
	productsSnap := u.products.store.snapshot()
	customersSnap := u.customers.store.snapshot()
	outboxSnap := u.outbox.snapshot()

	err := fn(ctx, domain.Repositories{
		Orders:    u.orders,
		Products:  u.products,
		Customers: u.customers,
		Outbox:    u.outbox,
	})
	if err != nil {
		u.orders.store.restore(ordersSnap)
		u.products.store.restore(productsSnap)
		u.customers.store.restore(customersSnap)
		u.outbox.restore(outboxSnap)
		return err
	}
	return nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
