package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/messaging/kafka"
	"github.com/expirians/storefront/internal/metrics"
)

// maxConflictRetries ограничивает повторы единицы работы при конфликте
// версий или сериализации. Конфликт после последней попытки возвращается
// вызывающему как есть.
const maxConflictRetries = 3

// conflictRetryDelay — пауза между повторами конфликтующей единицы работы.
const conflictRetryDelay = 25 * time.Millisecond

// Engine реализует операции оформления заказов. Все записи проходят через
// единицу работы: списание стока, сохранение заказа и постановка события
// в outbox коммитятся атомарно.
type Engine struct {
	uow     domain.UnitOfWork
	logger  *log.Entry
	metrics *metrics.FulfillmentMetrics
}

// NewEngine создаёт рабочий экземпляр движка оформления.
func NewEngine(uow domain.UnitOfWork, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "fulfillment")
	}
	return &Engine{
		uow:     uow,
		logger:  logger,
		metrics: metrics.NewFulfillmentMetrics(),
	}
}

// NewEngineWithoutMetrics создаёт движок без метрик (для тестов).
func NewEngineWithoutMetrics(uow domain.UnitOfWork, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "fulfillment")
	}
	return &Engine{
		uow:    uow,
		logger: logger,
	}
}

// CreateOrder оформляет заказ: проверяет клиента и продукты, условно
// списывает сток по каждой позиции, снимает цены в позиции и сохраняет
// заказ в статусе pending. Любая ошибка откатывает все эффекты.
func (e *Engine) CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderResponse, error) {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.RecordOrderInFlightStarted()
		defer func() {
			e.metrics.RecordOrderInFlightFinished()
			e.metrics.RecordCreateDuration(time.Since(start))
		}()
	}

	if err := validateCreateOrder(&req); err != nil {
		e.recordRejection(err)
		return OrderResponse{}, err
	}

	var created domain.Order
	err := e.withConflictRetry(ctx, func(ctx context.Context, r domain.Repositories) error {
		exists, err := r.Customers.Exists(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
		if !exists {
			return domain.ErrCustomerNotFound
		}

		items := make([]domain.OrderItem, 0, len(req.Items))
		for _, reqItem := range req.Items {
			product, err := r.Products.Get(ctx, reqItem.ProductID)
			if err != nil {
				return err
			}
			if err := domain.ValidateProduct(&product); err != nil {
				return err
			}
			if err := domain.EnsureStock(&product, reqItem.Quantity); err != nil {
				return err
			}
			if err := r.Products.DecrementStock(ctx, product.ID, reqItem.Quantity); err != nil {
				return err
			}
			snapshot := product
			items = append(items, domain.OrderItem{
				ID:             uuid.NewString(),
				ProductID:      product.ID,
				Quantity:       reqItem.Quantity,
				UnitPriceMinor: product.UnitPriceMinor(),
				Product:        &snapshot,
			})
		}

		order, err := domain.NewOrder(uuid.NewString(), req.CustomerID, req.ShippingAddress, req.BillingAddress, req.Notes, items)
		if err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}

		if err := r.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("persist order: %w", err)
		}

		if err := e.enqueueOrderEvent(ctx, r.Outbox, kafka.EventTypeOrderCreated, &order); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		e.recordRejection(err)
		e.logger.WithError(err).WithField("customer_id", req.CustomerID).Warn("order creation rejected")
		return OrderResponse{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordOrderCreated()
	}
	e.logger.WithFields(log.Fields{
		"order_id":    created.ID,
		"customer_id": created.CustomerID,
		"total_minor": created.TotalMinor(),
		"items":       len(created.Items),
	}).Info("order created")

	return toOrderResponse(created), nil
}

// UpdateOrderStatus переводит заказ в новый статус. Повторное применение
// текущего статуса — идемпотентный no-op без записи и без события.
func (e *Engine) UpdateOrderStatus(ctx context.Context, orderID, status string) (OrderResponse, error) {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return OrderResponse{}, domain.ErrStatusUnknown
	}

	var updated domain.Order
	err := e.withConflictRetry(ctx, func(ctx context.Context, r domain.Repositories) error {
		order, err := r.Orders.Get(ctx, orderID, domain.RelationOrderItems)
		if err != nil {
			return err
		}

		previous := order.Status
		changed, err := order.ApplyStatus(next)
		if err != nil {
			return err
		}
		if changed {
			if err := r.Orders.UpdateStatus(ctx, order); err != nil {
				return err
			}
			if err := e.enqueueOrderEvent(ctx, r.Outbox, kafka.EventTypeOrderStatusChanged, &order); err != nil {
				return err
			}
			if e.metrics != nil {
				e.metrics.RecordStatusTransition(string(previous), string(order.Status))
			}
			e.logger.WithFields(log.Fields{
				"order_id": order.ID,
				"from":     string(previous),
				"to":       string(order.Status),
			}).Info("order status changed")
		}

		updated = order
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(updated), nil
}

// GetOrder возвращает заказ с позициями и данными продуктов.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (OrderResponse, error) {
	var order domain.Order
	err := e.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		var err error
		order, err = r.Orders.Get(ctx, orderID, domain.RelationItemProducts)
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

// ListOrders возвращает заказы по фильтру, свежие первыми.
func (e *Engine) ListOrders(ctx context.Context, req ListOrdersRequest) ([]OrderResponse, error) {
	filter := domain.OrderFilter{CustomerID: req.CustomerID}
	if req.Status != "" {
		status := domain.OrderStatus(req.Status)
		if !status.Valid() {
			return nil, domain.ErrStatusUnknown
		}
		filter.Status = status
	}

	var orders []domain.Order
	err := e.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		var err error
		orders, err = r.Orders.List(ctx, filter, domain.RelationOrderItems)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	return responses, nil
}

// CustomerExists сообщает, известен ли клиент витрине.
func (e *Engine) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	if customerID == "" {
		return false, domain.ErrCustomerIDRequired
	}
	var exists bool
	err := e.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		var err error
		exists, err = r.Customers.Exists(ctx, customerID)
		return err
	})
	return exists, err
}

// withConflictRetry повторяет единицу работы при конфликте версий.
// Конфликт означает, что конкурентная транзакция успела первой; повтор
// перечитывает состояние и применяет операцию заново.
func (e *Engine) withConflictRetry(ctx context.Context, fn func(ctx context.Context, r domain.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = e.uow.Within(ctx, fn)
		if err == nil || !domain.IsVersionConflict(err) {
			return err
		}
		e.logger.WithFields(log.Fields{
			"attempt": attempt,
		}).Debug("retrying unit of work after version conflict")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * conflictRetryDelay):
		}
	}
	return err
}

func (e *Engine) enqueueOrderEvent(ctx context.Context, outbox domain.OutboxRepository, eventType kafka.EventType, order *domain.Order) error {
	event := kafka.NewOrderEvent(eventType, order.ID, order.CustomerID, string(order.Status), order.TotalMinor())
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	_, err = outbox.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}
	return nil
}

func (e *Engine) recordRejection(err error) {
	if e.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		e.metrics.RecordStockShortage()
		e.metrics.RecordOrderRejected("insufficient_stock")
	case domain.KindOf(err) == domain.KindNotFound:
		e.metrics.RecordOrderRejected("not_found")
	case domain.KindOf(err) == domain.KindBadRequest:
		e.metrics.RecordOrderRejected("bad_request")
	default:
		e.metrics.RecordOrderRejected("internal")
	}
}
