package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

// outboxRecord хранит сообщение и служебные поля in-memory реализации.
type outboxRecord struct {
	msg       domain.OutboxMessage
	status    string
	createdAt time.Time
	updatedAt time.Time
}

// OutboxRepository — простое in-memory хранилище transactional outbox.
type OutboxRepository struct {
	mu      sync.RWMutex
	records map[string]*outboxRecord
}

// NewOutboxRepository создаёт пустой outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{records: make(map[string]*outboxRecord)}
}

// Enqueue сохраняет событие со статусом pending.
func (r *OutboxRepository) Enqueue(_ context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.records[msg.ID] = &outboxRecord{
		msg:       msg,
		status:    outboxStatusPending,
		createdAt: now,
		updatedAt: now,
	}
	return msg, nil
}

// PullPending возвращает до limit сообщений со статусом pending,
// старые первыми.
func (r *OutboxRepository) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	type pendingRecord struct {
		msg       domain.OutboxMessage
		createdAt time.Time
	}
	pending := make([]pendingRecord, 0, limit)
	for _, record := range r.records {
		if record.status != outboxStatusPending {
			continue
		}
		pending = append(pending, pendingRecord{msg: record.msg, createdAt: record.createdAt})
	}

	for i := 1; i < len(pending); i++ {
		for j := i; j > 0 && pending[j].createdAt.Before(pending[j-1].createdAt); j-- {
			pending[j], pending[j-1] = pending[j-1], pending[j]
		}
	}

	result := make([]domain.OutboxMessage, 0, limit)
	for _, record := range pending {
		if len(result) == limit {
			break
		}
		result = append(result, record.msg)
	}
	return result, nil
}

// Stats возвращает состояние backlog'а.
func (r *OutboxRepository) Stats(_ context.Context) (domain.OutboxStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.OutboxStats{}
	for _, record := range r.records {
		if record.status != outboxStatusPending {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || record.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = record.createdAt
		}
	}
	return stats, nil
}

// MarkSent помечает сообщение опубликованным.
func (r *OutboxRepository) MarkSent(_ context.Context, id string) error {
	return r.setStatus(id, outboxStatusSent)
}

// MarkFailed помечает сообщение неуспешным после исчерпания retry.
func (r *OutboxRepository) MarkFailed(_ context.Context, id string) error {
	return r.setStatus(id, outboxStatusFailed)
}

func (r *OutboxRepository) setStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	record.status = status
	record.updatedAt = time.Now().UTC()
	return nil
}

// snapshot/restore поддерживают rollback единицы работы.
func (r *OutboxRepository) snapshot() map[string]*outboxRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]*outboxRecord, len(r.records))
	for id, record := range r.records {
		cp := *record
		snap[id] = &cp
	}
	return snap
}

func (r *OutboxRepository) restore(snap map[string]*outboxRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = snap
}

var _ domain.OutboxRepository = (*OutboxRepository)(nil)
