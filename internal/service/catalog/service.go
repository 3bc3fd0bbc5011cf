package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/messaging/kafka"
)

// AddProductRequest — вход операции добавления продукта в каталог.
type AddProductRequest struct {
	SKU            string
	InternalCode   string
	Name           string
	Description    string
	UnitPriceMinor int64
	StockQuantity  int32
}

// UpdateProductRequest — вход обновления продукта. Обновляются все поля,
// кроме SKU: артикул после создания не меняется.
type UpdateProductRequest struct {
	Name           string
	Description    string
	UnitPriceMinor int64
	StockQuantity  int32
}

// CreateCustomerRequest — вход регистрации клиента.
type CreateCustomerRequest struct {
	Email       string
	Name        string
	PhoneNumber string
}

// Service реализует управление каталогом: продукты и клиенты.
// Записи идут через единицу работы, чтобы событие каталога попадало
// в outbox той же транзакцией, что и сама запись.
type Service struct {
	uow    domain.UnitOfWork
	logger *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(uow domain.UnitOfWork, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{uow: uow, logger: logger}
}

// AddProduct добавляет продукт. Дубликат SKU — ошибка конфликта.
func (s *Service) AddProduct(ctx context.Context, req AddProductRequest) (domain.Product, error) {
	product, err := domain.NewProduct(
		uuid.NewString(),
		req.SKU,
		req.InternalCode,
		req.Name,
		req.Description,
		req.UnitPriceMinor,
		req.StockQuantity,
		true,
	)
	if err != nil {
		return domain.Product{}, err
	}

	err = s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		return s.enqueueProductEvent(ctx, r.Outbox, kafka.EventTypeProductCreated, &product)
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
	}).Info("product added to catalog")
	return product, nil
}

// UpdateProduct перезаписывает изменяемые поля продукта.
func (s *Service) UpdateProduct(ctx context.Context, productID string, req UpdateProductRequest) (domain.Product, error) {
	var updated domain.Product
	err := s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		product, err := r.Products.Get(ctx, productID)
		if err != nil {
			return err
		}

		if req.Name == "" {
			return domain.ErrProductNameRequired
		}
		if len(req.Name) > domain.MaxProductNameLen {
			return domain.ErrProductNameTooLong
		}
		if len(req.Description) > domain.MaxProductDescLen {
			return domain.ErrProductDescTooLong
		}
		product.Name = req.Name
		product.Description = req.Description
		if err := product.SetUnitPrice(req.UnitPriceMinor); err != nil {
			return err
		}
		if err := product.SetStock(req.StockQuantity); err != nil {
			return err
		}
		product.UpdatedAt = time.Now().UTC()

		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// DeactivateProduct снимает продукт с витрины, не удаляя его: на продукт
// могут ссылаться позиции существующих заказов.
func (s *Service) DeactivateProduct(ctx context.Context, productID string) (domain.Product, error) {
	var updated domain.Product
	err := s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		product, err := r.Products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if !product.Active {
			// Повторная деактивация — идемпотентный no-op.
			updated = product
			return nil
		}
		product.Deactivate()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		if err := s.enqueueProductEvent(ctx, r.Outbox, kafka.EventTypeProductDeactivated, &product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": updated.ID,
		"sku":        updated.SKU,
	}).Info("product deactivated")
	return updated, nil
}

// GetProduct возвращает продукт по идентификатору.
func (s *Service) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var product domain.Product
	err := s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		var err error
		product, err = r.Products.Get(ctx, productID)
		return err
	})
	return product, err
}

// ListProducts возвращает продукты каталога; activeOnly скрывает снятые
// с витрины.
func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	var products []domain.Product
	err := s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		var err error
		products, err = r.Products.List(ctx, activeOnly)
		return err
	})
	return products, err
}

// CreateCustomer регистрирует клиента.
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (domain.Customer, error) {
	customer := domain.Customer{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   time.Now().UTC(),
	}
	if err := domain.ValidateCustomer(&customer); err != nil {
		return domain.Customer{}, err
	}

	err := s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		return r.Customers.Create(ctx, customer)
	})
	if err != nil {
		return domain.Customer{}, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("customer registered")
	return customer, nil
}

// GetCustomer возвращает клиента по идентификатору.
func (s *Service) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	var customer domain.Customer
	err := s.uow.Within(ctx, func(ctx context.Context, r domain.Repositories) error {
		var err error
		customer, err = r.Customers.Get(ctx, customerID)
		return err
	})
	return customer, err
}

func (s *Service) enqueueProductEvent(ctx context.Context, outbox domain.OutboxRepository, eventType kafka.EventType, product *domain.Product) error {
	event := kafka.NewProductEvent(eventType, product.ID, product.SKU)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal product event: %w", err)
	}
	_, err = outbox.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: "product",
		AggregateID:   product.ID,
		EventType:     string(eventType),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}
	return nil
}
