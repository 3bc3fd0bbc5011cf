package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expirians/storefront/internal/domain"
)

// UnitOfWork исполняет fn в одной SQL-транзакции: заказ, позиции,
// списание стока и outbox-событие коммитятся вместе или не применяются
// вовсе. Для читателей вне транзакции эффекты видимы только после commit.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork создаёт транзакционную единицу работы поверх store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{db: store.DB()}
}

// Within открывает транзакцию и передаёт fn репозитории, привязанные к ней.
// Serialization failure и deadlock транслируются в конфликт версий:
// вызывающая сторона повторяет такую единицу работы ограниченное число раз.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, r domain.Repositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	repos := domain.Repositories{
		Orders:    &orderRepository{q: tx},
		Products:  &productRepository{q: tx},
		Customers: &customerRepository{q: tx},
		Outbox:    &outboxRepository{q: tx},
	}

	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback()
		if isRetryableTxError(err) {
			return domain.ErrOrderVersionConflict
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isRetryableTxError(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
