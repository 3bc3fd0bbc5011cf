package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/messaging/kafka"
	"github.com/expirians/storefront/internal/storage/memory"
)

type testEnv struct {
	svc    *Service
	outbox *memory.OutboxRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	orders := memory.NewOrderRepository(products)
	outbox := memory.NewOutboxRepository()
	uow := memory.NewUnitOfWork(orders, products, customers, outbox)
	return &testEnv{svc: NewService(uow, nil), outbox: outbox}
}

func validProduct() AddProductRequest {
	return AddProductRequest{
		SKU:            "SKU-1",
		Name:           "Widget",
		Description:    "A widget",
		UnitPriceMinor: 1500,
		StockQuantity:  10,
	}
}

func TestService_AddProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.svc.AddProduct(ctx, validProduct())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID == "" {
		t.Fatal("product must get an id")
	}
	if !product.Active {
		t.Fatal("new product must be active")
	}

	events, _ := env.outbox.PullPending(ctx, 10)
	if len(events) != 1 || events[0].EventType != string(kafka.EventTypeProductCreated) {
		t.Fatalf("expected product.created event, got %v", events)
	}

	// Дубликат SKU отклоняется как конфликт.
	if _, err := env.svc.AddProduct(ctx, validProduct()); !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}

	bad := validProduct()
	bad.UnitPriceMinor = 0
	if _, err := env.svc.AddProduct(ctx, bad); !errors.Is(err, domain.ErrProductPriceInvalid) {
		t.Fatalf("expected ErrProductPriceInvalid, got %v", err)
	}
}

func TestService_UpdateProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.svc.AddProduct(ctx, validProduct())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := env.svc.UpdateProduct(ctx, product.ID, UpdateProductRequest{
		Name:           "Widget v2",
		Description:    "updated",
		UnitPriceMinor: 2000,
		StockQuantity:  4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Widget v2" || updated.UnitPriceMinor() != 2000 || updated.StockQuantity() != 4 {
		t.Fatalf("update must apply all fields, got %+v", updated)
	}
	if updated.SKU != "SKU-1" {
		t.Fatal("sku must not change on update")
	}

	if _, err := env.svc.UpdateProduct(ctx, product.ID, UpdateProductRequest{Name: "", UnitPriceMinor: 100}); !errors.Is(err, domain.ErrProductNameRequired) {
		t.Fatalf("expected ErrProductNameRequired, got %v", err)
	}
	if _, err := env.svc.UpdateProduct(ctx, product.ID, UpdateProductRequest{Name: strings.Repeat("x", domain.MaxProductNameLen+1), UnitPriceMinor: 100}); !errors.Is(err, domain.ErrProductNameTooLong) {
		t.Fatalf("expected ErrProductNameTooLong, got %v", err)
	}
	if _, err := env.svc.UpdateProduct(ctx, "missing", UpdateProductRequest{Name: "x", UnitPriceMinor: 100}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestService_DeactivateProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.svc.AddProduct(ctx, validProduct())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	disabled, err := env.svc.DeactivateProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disabled.Active {
		t.Fatal("deactivated product must not be active")
	}

	events, _ := env.outbox.PullPending(ctx, 10)
	if len(events) != 2 {
		t.Fatalf("expected created+deactivated events, got %d", len(events))
	}

	// Повторная деактивация — no-op без нового события.
	if _, err := env.svc.DeactivateProduct(ctx, product.ID); err != nil {
		t.Fatalf("repeat deactivation must not fail: %v", err)
	}
	events, _ = env.outbox.PullPending(ctx, 10)
	if len(events) != 2 {
		t.Fatalf("no-op deactivation must not enqueue events, got %d", len(events))
	}

	// Снятый продукт скрыт из активной выборки, но остаётся в каталоге.
	active, _ := env.svc.ListProducts(ctx, true)
	if len(active) != 0 {
		t.Fatalf("expected no active products, got %d", len(active))
	}
	all, _ := env.svc.ListProducts(ctx, false)
	if len(all) != 1 {
		t.Fatalf("expected 1 product overall, got %d", len(all))
	}
}

func TestService_Customers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	customer, err := env.svc.CreateCustomer(ctx, CreateCustomerRequest{
		Email: "ann@example.com", Name: "Ann", PhoneNumber: "+100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := env.svc.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "ann@example.com" {
		t.Fatalf("expected stored email, got %s", got.Email)
	}

	if _, err := env.svc.CreateCustomer(ctx, CreateCustomerRequest{Email: "x@y.z", PhoneNumber: "1"}); !errors.Is(err, domain.ErrCustomerNameRequired) {
		t.Fatalf("expected ErrCustomerNameRequired, got %v", err)
	}
	if _, err := env.svc.GetCustomer(ctx, "missing"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
