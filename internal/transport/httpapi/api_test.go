package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/expirians/storefront/internal/service/catalog"
	"github.com/expirians/storefront/internal/service/fulfillment"
	"github.com/expirians/storefront/internal/storage/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	orders := memory.NewOrderRepository(products)
	outbox := memory.NewOutboxRepository()
	uow := memory.NewUnitOfWork(orders, products, customers, outbox)

	engine := fulfillment.NewEngineWithoutMetrics(uow, nil)
	catalogSvc := catalog.NewService(uow, nil)
	return NewRouter(NewAPI(engine, catalogSvc, nil))
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createCustomer(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"email": "ann@example.com", "name": "Ann", "phone_number": "+100",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var view customerView
	decode(t, rec, &view)
	return view.ID
}

func createProduct(t *testing.T, router *gin.Engine, sku string, price int64, stock int32) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"sku": sku, "name": "Widget " + sku, "unit_price_minor": price, "stock_quantity": stock,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var view productView
	decode(t, rec, &view)
	return view.ID
}

func TestAPI_CreateOrderFlow(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	customerID := createCustomer(t, router)
	productID := createProduct(t, router, "SKU-1", 1500, 10)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id":      customerID,
		"shipping_address": "1 Main st",
		"billing_address":  "1 Main st",
		"items":            []gin.H{{"product_id": productID, "quantity": 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var order orderView
	decode(t, rec, &order)
	if order.Status != "pending" || order.TotalMinor != 3000 {
		t.Fatalf("unexpected order view: %+v", order)
	}

	// Заказ читается по id и содержит данные продукта.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var fetched orderView
	decode(t, rec, &fetched)
	if len(fetched.Items) != 1 || fetched.Items[0].ProductSKU != "SKU-1" {
		t.Fatalf("expected product data in items, got %+v", fetched.Items)
	}

	// Смена статуса.
	rec = doJSON(t, router, http.MethodPut, "/api/v1/orders/"+order.ID+"/status", gin.H{"status": "confirmed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Нелегальный переход — 400.
	rec = doJSON(t, router, http.MethodPut, "/api/v1/orders/"+order.ID+"/status", gin.H{"status": "pending"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for forbidden transition, got %d", rec.Code)
	}

	// Листинг с фильтром по статусу.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/orders?customer_id=%s&status=confirmed", customerID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listed struct {
		Orders []orderView `json:"orders"`
	}
	decode(t, rec, &listed)
	if len(listed.Orders) != 1 {
		t.Fatalf("expected 1 confirmed order, got %d", len(listed.Orders))
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	customerID := createCustomer(t, router)
	productID := createProduct(t, router, "SKU-1", 1500, 1)

	// 400: тело не проходит структурную валидацию.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": customerID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid body, got %d", rec.Code)
	}

	// 400: нехватка стока.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id":      customerID,
		"shipping_address": "1 Main st",
		"billing_address":  "1 Main st",
		"items":            []gin.H{{"product_id": productID, "quantity": 5}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for insufficient stock, got %d: %s", rec.Code, rec.Body.String())
	}

	// 404: неизвестный заказ.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/00000000-0000-4000-8000-000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", rec.Code)
	}

	// 404: неизвестный продукт.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/00000000-0000-4000-8000-000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}

	// 409: дубликат SKU.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"sku": "SKU-1", "name": "Another", "unit_price_minor": 100, "stock_quantity": 1,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate sku, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_ProductLifecycle(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	productID := createProduct(t, router, "SKU-9", 500, 3)

	// Обновление.
	rec := doJSON(t, router, http.MethodPut, "/api/v1/products/"+productID, gin.H{
		"name": "Renamed", "unit_price_minor": 700, "stock_quantity": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated productView
	decode(t, rec, &updated)
	if updated.Name != "Renamed" || updated.UnitPriceMinor != 700 {
		t.Fatalf("unexpected product view: %+v", updated)
	}

	// Деактивация через PATCH.
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/products/"+productID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var disabled productView
	decode(t, rec, &disabled)
	if disabled.Active {
		t.Fatal("patched product must be inactive")
	}

	// Снятый продукт скрыт по умолчанию и виден с include_inactive.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	var listed struct {
		Products []productView `json:"products"`
	}
	decode(t, rec, &listed)
	if len(listed.Products) != 0 {
		t.Fatalf("expected no active products, got %d", len(listed.Products))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products?include_inactive=true", nil)
	decode(t, rec, &listed)
	if len(listed.Products) != 1 {
		t.Fatalf("expected 1 product with include_inactive, got %d", len(listed.Products))
	}
}
