package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage/memory"
	"github.com/expirians/storefront/internal/storage/postgres"
)

// Dependencies содержит инфраструктурные зависимости приложения.
// Backend выбирается конфигурацией: Postgres при заданном DSN,
// иначе in-memory хранилище.
type Dependencies struct {
	UoW    domain.UnitOfWork
	Outbox domain.OutboxRepository
	Logger *log.Entry

	store *postgres.Store
}

// NewDependencies собирает зависимости под выбранный backend.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Info("using in-memory storage backend")
		products := memory.NewProductRepository()
		customers := memory.NewCustomerRepository()
		orders := memory.NewOrderRepository(products)
		outbox := memory.NewOutboxRepository()
		return &Dependencies{
			UoW:    memory.NewUnitOfWork(orders, products, customers, outbox),
			Outbox: outbox,
			Logger: logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure postgres schema: %w", err)
	}
	logger.Info("using postgres storage backend")

	return &Dependencies{
		UoW:    postgres.NewUnitOfWork(store),
		Outbox: postgres.NewOutboxRepository(store),
		Logger: logger,
		store:  store,
	}, nil
}

// StorageCheck возвращает health check хранилища; для in-memory backend'а
// проверка всегда проходит.
func (d *Dependencies) StorageCheck() func() error {
	if d.store == nil {
		return func() error { return nil }
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return d.store.Ping(ctx)
	}
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() {
	if d.store == nil {
		return
	}
	if err := d.store.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
