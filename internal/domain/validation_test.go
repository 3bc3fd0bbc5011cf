package domain

import (
	"errors"
	"strings"
	"testing"
)

func testProduct(t *testing.T, price int64, stock int32, active bool) Product {
	t.Helper()
	p, err := NewProduct("prod-1", "SKU-1", "", "Widget", "", price, stock, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestValidateProduct(t *testing.T) {
	t.Parallel()

	active := testProduct(t, 100, 5, true)
	if err := ValidateProduct(&active); err != nil {
		t.Fatalf("active product must validate: %v", err)
	}

	inactive := testProduct(t, 100, 5, false)
	if err := ValidateProduct(&inactive); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("expected ErrProductInactive, got %v", err)
	}

	if err := ValidateProduct(nil); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestValidateCustomer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		customer *Customer
		wantErr  error
	}{
		{"nil", nil, ErrCustomerNotFound},
		{"missing name", &Customer{Email: "a@b.c", PhoneNumber: "1"}, ErrCustomerNameRequired},
		{"name too long", &Customer{Name: strings.Repeat("x", MaxCustomerNameLen+1), Email: "a@b.c", PhoneNumber: "1"}, ErrCustomerNameTooLong},
		{"missing email", &Customer{Name: "Ann", PhoneNumber: "1"}, ErrCustomerEmailRequired},
		{"email too long", &Customer{Name: "Ann", Email: strings.Repeat("x", MaxCustomerEmailLen+1), PhoneNumber: "1"}, ErrCustomerEmailTooLong},
		{"missing phone", &Customer{Name: "Ann", Email: "a@b.c"}, ErrCustomerPhoneRequired},
		{"valid", &Customer{Name: "Ann", Email: "a@b.c", PhoneNumber: "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCustomer(tt.customer)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnsureStock(t *testing.T) {
	t.Parallel()

	product := testProduct(t, 100, 5, true)

	if err := EnsureStock(&product, 5); err != nil {
		t.Fatalf("exact stock must pass: %v", err)
	}
	if err := EnsureStock(&product, 6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := EnsureStock(&product, 0); !errors.Is(err, ErrItemQtyInvalid) {
		t.Fatalf("expected ErrItemQtyInvalid, got %v", err)
	}
	if err := EnsureStock(nil, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
