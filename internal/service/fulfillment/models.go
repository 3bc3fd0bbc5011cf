package fulfillment

import (
	"time"

	"github.com/expirians/storefront/internal/domain"
)

// CreateOrderItem — запрошенная позиция заказа. Цена в запросе не передаётся:
// в заказ снимается текущая цена продукта из каталога.
type CreateOrderItem struct {
	ProductID string
	Quantity  int32
}

// CreateOrderRequest — вход операции создания заказа.
type CreateOrderRequest struct {
	CustomerID      string
	ShippingAddress string
	BillingAddress  string
	Notes           string
	Items           []CreateOrderItem
}

// OrderItemResponse — проекция позиции заказа для транспортного слоя.
type OrderItemResponse struct {
	ID             string
	ProductID      string
	ProductSKU     string
	ProductName    string
	Quantity       int32
	UnitPriceMinor int64
	SubtotalMinor  int64
}

// OrderResponse — проекция заказа для транспортного слоя.
type OrderResponse struct {
	ID              string
	CustomerID      string
	Status          string
	ShippingAddress string
	BillingAddress  string
	Notes           string
	Items           []OrderItemResponse
	TotalMinor      int64
	PlacedAt        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListOrdersRequest — опциональные фильтры списка заказов.
type ListOrdersRequest struct {
	CustomerID string
	Status     string
}

func toOrderResponse(order domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Notes:           order.Notes,
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		TotalMinor:      order.TotalMinor(),
		PlacedAt:        order.PlacedAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, item := range order.Items {
		ir := OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
			SubtotalMinor:  item.Subtotal(),
		}
		if item.Product != nil {
			ir.ProductSKU = item.Product.SKU
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
