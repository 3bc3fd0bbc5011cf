package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/expirians/storefront/internal/domain"
)

type customerRepository struct {
	q querier
}

// NewCustomerRepository создаёт PostgreSQL-реализацию domain.CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{q: store.DB()}
}

// Create вставляет нового клиента.
func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO customers (id, email, name, phone_number, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		customer.ID, customer.Email, customer.Name, customer.PhoneNumber, customer.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolationConstraint(err); ok {
			return domain.ErrDuplicateEntity
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound.
func (r *customerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var customer domain.Customer
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, name, phone_number, created_at
		FROM customers
		WHERE id = $1
	`, id).Scan(
		&customer.ID, &customer.Email, &customer.Name, &customer.PhoneNumber, &customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return customer, nil
}

// Exists проверяет существование клиента одним индексным чтением.
func (r *customerRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var exists bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer exists: %w", err)
	}
	return exists, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
