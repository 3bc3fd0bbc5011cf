package kafka

import "time"

// EventType определяет тип доменного события
type EventType string

const (
	// Order события
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"

	// Catalog события
	EventTypeProductCreated     EventType = "product.created"
	EventTypeProductDeactivated EventType = "product.deactivated"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "storefront.order.events"
	TopicCatalogEvents   = "storefront.catalog.events"
	TopicDeadLetterQueue = "storefront.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для DLQ
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	TotalMinor int64     `json:"total_minor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProductEvent представляет событие каталога
type ProductEvent struct {
	EventType EventType `json:"event_type"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID, status string, totalMinor int64) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		TotalMinor: totalMinor,
		Timestamp:  time.Now(),
	}
}

// NewProductEvent создает новое событие каталога
func NewProductEvent(eventType EventType, productID, sku string) *ProductEvent {
	return &ProductEvent{
		EventType: eventType,
		ProductID: productID,
		SKU:       sku,
		Timestamp: time.Now(),
	}
}
