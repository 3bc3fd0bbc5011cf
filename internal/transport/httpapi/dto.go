package httpapi

import (
	"time"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/service/fulfillment"
)

// createOrderItemDTO — позиция заказа в запросе на создание.
type createOrderItemDTO struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
}

// createOrderDTO — тело POST /orders.
type createOrderDTO struct {
	CustomerID      string               `json:"customer_id" validate:"required,uuid4"`
	ShippingAddress string               `json:"shipping_address" validate:"required,max=256"`
	BillingAddress  string               `json:"billing_address" validate:"required,max=256"`
	Notes           string               `json:"notes" validate:"max=1000"`
	Items           []createOrderItemDTO `json:"items" validate:"required,min=1,dive"`
}

// updateOrderStatusDTO — тело PUT /orders/:id/status.
type updateOrderStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// createProductDTO — тело POST /products.
type createProductDTO struct {
	SKU            string `json:"sku" validate:"required,max=20"`
	InternalCode   string `json:"internal_code" validate:"max=64"`
	Name           string `json:"name" validate:"required,max=60"`
	Description    string `json:"description" validate:"max=200"`
	UnitPriceMinor int64  `json:"unit_price_minor" validate:"required,gt=0"`
	StockQuantity  int32  `json:"stock_quantity" validate:"gte=0"`
}

// updateProductDTO — тело PUT /products/:id. SKU не обновляется.
type updateProductDTO struct {
	Name           string `json:"name" validate:"required,max=60"`
	Description    string `json:"description" validate:"max=200"`
	UnitPriceMinor int64  `json:"unit_price_minor" validate:"required,gt=0"`
	StockQuantity  int32  `json:"stock_quantity" validate:"gte=0"`
}

// createCustomerDTO — тело POST /customers.
type createCustomerDTO struct {
	Email       string `json:"email" validate:"required,email,max=320"`
	Name        string `json:"name" validate:"required,max=60"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type orderItemView struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductSKU     string `json:"product_sku,omitempty"`
	ProductName    string `json:"product_name,omitempty"`
	Quantity       int32  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	SubtotalMinor  int64  `json:"subtotal_minor"`
}

type orderView struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	Notes           string          `json:"notes,omitempty"`
	Items           []orderItemView `json:"items"`
	TotalMinor      int64           `json:"total_minor"`
	PlacedAt        time.Time       `json:"placed_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type productView struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	InternalCode   string    `json:"internal_code,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
	StockQuantity  int32     `json:"stock_quantity"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type customerView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func toOrderView(resp fulfillment.OrderResponse) orderView {
	view := orderView{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		Status:          resp.Status,
		ShippingAddress: resp.ShippingAddress,
		BillingAddress:  resp.BillingAddress,
		Notes:           resp.Notes,
		Items:           make([]orderItemView, 0, len(resp.Items)),
		TotalMinor:      resp.TotalMinor,
		PlacedAt:        resp.PlacedAt,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
	for _, item := range resp.Items {
		view.Items = append(view.Items, orderItemView{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductSKU:     item.ProductSKU,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
			SubtotalMinor:  item.SubtotalMinor,
		})
	}
	return view
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:             p.ID,
		SKU:            p.SKU,
		InternalCode:   p.InternalCode,
		Name:           p.Name,
		Description:    p.Description,
		UnitPriceMinor: p.UnitPriceMinor(),
		StockQuantity:  p.StockQuantity(),
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toCustomerView(c domain.Customer) customerView {
	return customerView{
		ID:          c.ID,
		Email:       c.Email,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
	}
}
