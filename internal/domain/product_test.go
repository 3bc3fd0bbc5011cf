package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewProduct_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sku     string
		title   string
		desc    string
		price   int64
		stock   int32
		wantErr error
	}{
		{name: "missing sku", title: "Widget", price: 100, wantErr: ErrProductSKURequired},
		{name: "sku too long", sku: strings.Repeat("x", MaxProductSKULen+1), title: "Widget", price: 100, wantErr: ErrProductSKUTooLong},
		{name: "missing name", sku: "SKU-1", price: 100, wantErr: ErrProductNameRequired},
		{name: "name too long", sku: "SKU-1", title: strings.Repeat("x", MaxProductNameLen+1), price: 100, wantErr: ErrProductNameTooLong},
		{name: "description too long", sku: "SKU-1", title: "Widget", desc: strings.Repeat("x", MaxProductDescLen+1), price: 100, wantErr: ErrProductDescTooLong},
		{name: "zero price", sku: "SKU-1", title: "Widget", price: 0, wantErr: ErrProductPriceInvalid},
		{name: "negative price", sku: "SKU-1", title: "Widget", price: -5, wantErr: ErrProductPriceInvalid},
		{name: "negative stock", sku: "SKU-1", title: "Widget", price: 100, stock: -1, wantErr: ErrProductStockNegative},
		{name: "valid", sku: "SKU-1", title: "Widget", price: 100, stock: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			product, err := NewProduct("prod-1", tt.sku, "", tt.title, tt.desc, tt.price, tt.stock, true)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product.UnitPriceMinor() != tt.price {
				t.Fatalf("expected price %d, got %d", tt.price, product.UnitPriceMinor())
			}
			if product.StockQuantity() != tt.stock {
				t.Fatalf("expected stock %d, got %d", tt.stock, product.StockQuantity())
			}
		})
	}
}

func TestProduct_Mutators(t *testing.T) {
	t.Parallel()

	product, err := NewProduct("prod-1", "SKU-1", "", "Widget", "", 100, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := product.SetUnitPrice(0); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("expected ErrProductPriceInvalid, got %v", err)
	}
	if product.UnitPriceMinor() != 100 {
		t.Fatal("failed mutation must not change price")
	}

	if err := product.SetStock(-1); !errors.Is(err, ErrProductStockNegative) {
		t.Fatalf("expected ErrProductStockNegative, got %v", err)
	}
	if product.StockQuantity() != 5 {
		t.Fatal("failed mutation must not change stock")
	}

	if err := product.SetStock(0); err != nil {
		t.Fatalf("zero stock is valid: %v", err)
	}

	product.Deactivate()
	if product.Active {
		t.Fatal("deactivated product must not stay active")
	}
}

func TestRestoreProduct(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	product := RestoreProduct("prod-1", "SKU-1", "IC-7", "Widget", "desc", 250, 3, false, created, created)

	if product.UnitPriceMinor() != 250 || product.StockQuantity() != 3 {
		t.Fatalf("restore must keep price/stock, got %d/%d", product.UnitPriceMinor(), product.StockQuantity())
	}
	if product.Active {
		t.Fatal("restore must keep active flag")
	}
	if !product.CreatedAt.Equal(created) {
		t.Fatal("restore must keep timestamps")
	}
}
