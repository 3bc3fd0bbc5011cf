package domain

import (
	"context"
	"time"

	"github.com/expirians/storefront/internal/storage"
)

// EntityID реализует storage.Entity для каждой доменной сущности,
// чтобы обобщённый шлюз мог работать с ними единообразно.
func (o Order) EntityID() string    { return o.ID }
func (p Product) EntityID() string  { return p.ID }
func (c Customer) EntityID() string { return c.ID }

// Теги eager-загрузки связей заказа. Типизированные константы вместо
// строковых путей: запрос несуществующей связи не компилируется.
const (
	// RelationOrderItems догружает позиции заказа.
	RelationOrderItems storage.Relation = "items"
	// RelationItemProducts догружает продукт каждой позиции.
	// Подразумевает RelationOrderItems.
	RelationItemProducts storage.Relation = "items.product"
)

// OrderFilter — опциональный фильтр списка заказов. Ненулевые поля
// сужают выборку по логическому AND.
type OrderFilter struct {
	CustomerID string
	Status     OrderStatus
}

// Matches проверяет заказ по фильтру.
func (f OrderFilter) Matches(o *Order) bool {
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями.
	// ErrDuplicateEntity, если запись с таким ID уже существует.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ или ErrOrderNotFound, догружая запрошенные связи.
	Get(ctx context.Context, id string, relations ...storage.Relation) (Order, error)
	// List возвращает заказы по фильтру; пустой фильтр — все заказы.
	List(ctx context.Context, filter OrderFilter, relations ...storage.Relation) ([]Order, error)
	// UpdateStatus применяет новый статус с учётом optimistic locking:
	// ErrOrderVersionConflict при расхождении версии.
	UpdateStatus(ctx context.Context, order Order) error
}

// ProductRepository описывает хранилище каталога.
type ProductRepository interface {
	// Create сохраняет продукт; ErrDuplicateSKU при коллизии SKU.
	Create(ctx context.Context, product Product) error
	// Get возвращает продукт или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// List возвращает продукты; activeOnly ограничивает выборку активными.
	List(ctx context.Context, activeOnly bool) ([]Product, error)
	// Update перезаписывает продукт; ErrProductNotFound, если его нет.
	Update(ctx context.Context, product Product) error
	// DecrementStock условно списывает qty единиц стока: операция
	// завершается ErrInsufficientStock, если остаток меньше qty, и не
	// оставляет частичных эффектов. Сток никогда не уходит в минус.
	DecrementStock(ctx context.Context, productID string, qty int32) error
}

// CustomerRepository описывает хранилище клиентов.
type CustomerRepository interface {
	Create(ctx context.Context, customer Customer) error
	// Get возвращает клиента или ErrCustomerNotFound.
	Get(ctx context.Context, id string) (Customer, error)
	// Exists — дешёвая проверка существования для boundary-слоя.
	Exists(ctx context.Context, id string) (bool, error)
}

// OutboxMessage хранит событие для публикации через transactional outbox.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository сохраняет события для последующей публикации.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxPublisher публикует события из outbox; должен быть идемпотентным.
type OutboxPublisher interface {
	Publish(msg OutboxMessage) error
}

// Repositories — набор репозиториев, видимый внутри единицы работы.
type Repositories struct {
	Orders    OrderRepository
	Products  ProductRepository
	Customers CustomerRepository
	Outbox    OutboxRepository
}

// UnitOfWork исполняет fn атомарно: все записи, сделанные через переданные
// репозитории, коммитятся вместе или не применяются вовсе. Побочные эффекты
// видимы другим читателям только после коммита.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
