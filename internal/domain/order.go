package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, сток уже списан, подтверждения ещё нет.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён и готов к отгрузке.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен; терминальный статус.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled — заказ отменён до доставки; терминальный статус.
	OrderStatusCanceled OrderStatus = "canceled"
)

// Ограничения на адресные поля заказа.
const MaxOrderAddressLen = 256

// statusTransitions задаёт явную таблицу легальных переходов.
// Исходная система проверяла только принадлежность значения enum'у,
// что позволяло любые переходы; здесь таблица консервативная.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCanceled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCanceled:  {},
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal сообщает, что из статуса нет исходящих переходов.
func (s OrderStatus) Terminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo проверяет переход по таблице. Переход в тот же статус
// здесь не считается переходом — его обрабатывает ApplyStatus.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem — одна позиция заказа. Позиция создаётся вместе с заказом
// и не имеет собственного жизненного цикла.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	// Quantity — количество единиц, строго положительное.
	Quantity int32
	// UnitPriceMinor — снимок цены продукта на момент создания заказа.
	// Последующие изменения цены продукта на позицию не влияют.
	UnitPriceMinor int64
	// Product заполняется при eager-загрузке связи items.product.
	Product *Product
}

// Subtotal возвращает стоимость позиции: quantity × unit price.
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPriceMinor
}

// Order агрегирует заказ и его позиции. Позиции неизменяемы после создания;
// мутируется только статус.
type Order struct {
	ID              string
	PlacedAt        time.Time
	ShippingAddress string
	BillingAddress  string
	Notes           string
	CustomerID      string
	Status          OrderStatus
	Items           []OrderItem
	// Version используется для optimistic locking при обновлении статуса.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder собирает заказ в начальном статусе. Заказ без позиций
// не существует и не персистится.
func NewOrder(id, customerID, shippingAddress, billingAddress, notes string, items []OrderItem) (Order, error) {
	if customerID == "" {
		return Order{}, ErrCustomerIDRequired
	}
	if shippingAddress == "" {
		return Order{}, ErrShippingAddrRequired
	}
	if len(shippingAddress) > MaxOrderAddressLen {
		return Order{}, ErrShippingAddrTooLong
	}
	if billingAddress == "" {
		return Order{}, ErrBillingAddrRequired
	}
	if len(billingAddress) > MaxOrderAddressLen {
		return Order{}, ErrBillingAddrTooLong
	}
	if len(items) == 0 {
		return Order{}, ErrItemsRequired
	}
	for _, item := range items {
		if item.ProductID == "" {
			return Order{}, ErrItemProductRequired
		}
		if item.Quantity <= 0 {
			return Order{}, ErrItemQtyInvalid
		}
		if item.UnitPriceMinor < 0 {
			return Order{}, ErrItemPriceInvalid
		}
	}

	now := time.Now().UTC()
	return Order{
		ID:              id,
		PlacedAt:        now,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		Notes:           notes,
		CustomerID:      customerID,
		Status:          OrderStatusPending,
		Items:           items,
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TotalMinor возвращает сумму заказа по снимкам цен позиций.
func (o *Order) TotalMinor() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// ApplyStatus выполняет переход статуса. Повторное применение текущего
// статуса — идемпотентный no-op; нелегальный переход — ошибка bad request.
// Возвращает true, если состояние заказа изменилось.
func (o *Order) ApplyStatus(next OrderStatus) (bool, error) {
	if !next.Valid() {
		return false, ErrStatusUnknown
	}
	if next == o.Status {
		return false, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return false, ErrTransitionForbidden
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}
