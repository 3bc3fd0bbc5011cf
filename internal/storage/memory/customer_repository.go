package memory

import (
	"context"
	"errors"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage"
)

// CustomerRepository — in-memory реализация domain.CustomerRepository.
type CustomerRepository struct {
	store *Store[domain.Customer]
}

// NewCustomerRepository создаёт пустое хранилище клиентов.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{store: NewStore[domain.Customer]()}
}

// Create сохраняет нового клиента.
func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) error {
	if err := r.store.Add(ctx, customer); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return domain.ErrDuplicateEntity
		}
		return err
	}
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound.
func (r *CustomerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

// Exists проверяет существование клиента без возврата данных.
func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.store.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return false, err
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)
