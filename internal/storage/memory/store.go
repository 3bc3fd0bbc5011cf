// Package memory реализует шлюз персистентности поверх map для локальной
// разработки и тестов. Единица работы даёт атомарность через snapshot/rollback.
package memory

import (
	"context"
	"sync"

	"github.com/expirians/storefront/internal/storage"
)

// RelationLoader догружает одну связь в копию сущности.
type RelationLoader[T storage.Entity] func(ctx context.Context, entity *T) error

// StoreOption настраивает Store.
type StoreOption[T storage.Entity] func(*Store[T])

// WithClone задаёт глубокое копирование сущности. Без него используется
// копирование значения, чего достаточно для плоских структур.
func WithClone[T storage.Entity](clone func(T) T) StoreOption[T] {
	return func(s *Store[T]) {
		s.clone = clone
	}
}

// Store — обобщённая in-memory реализация storage.Gateway.
type Store[T storage.Entity] struct {
	mu      sync.RWMutex
	items   map[string]T
	loaders map[storage.Relation]RelationLoader[T]
	clone   func(T) T
}

// NewStore создаёт пустой store для типа T.
func NewStore[T storage.Entity](opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		items:   make(map[string]T),
		loaders: make(map[storage.Relation]RelationLoader[T]),
		clone:   func(v T) T { return v },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRelation связывает тег с загрузчиком. Запрос тега без загрузчика
// завершается storage.ErrUnknownRelation, а не тихо игнорируется.
func (s *Store[T]) RegisterRelation(rel storage.Relation, loader RelationLoader[T]) {
	s.loaders[rel] = loader
}

// Add сохраняет новую сущность, если ID ещё не занят.
func (s *Store[T]) Add(_ context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[entity.EntityID()]; exists {
		return storage.ErrAlreadyExists
	}
	// Храним копию, чтобы избежать непредсказуемых мутаций извне.
	s.items[entity.EntityID()] = s.clone(entity)
	return nil
}

// Update перезаписывает существующую сущность.
func (s *Store[T]) Update(_ context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[entity.EntityID()]; !exists {
		return storage.ErrNotFound
	}
	s.items[entity.EntityID()] = s.clone(entity)
	return nil
}

// Delete удаляет сущность по ID.
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// GetByID возвращает копию сущности с догруженными связями.
func (s *Store[T]) GetByID(ctx context.Context, id string, relations ...storage.Relation) (T, error) {
	s.mu.RLock()
	entity, ok := s.items[id]
	if ok {
		entity = s.clone(entity)
	}
	s.mu.RUnlock()

	var zero T
	if !ok {
		return zero, storage.ErrNotFound
	}
	if err := s.loadRelations(ctx, &entity, relations); err != nil {
		return zero, err
	}
	return entity, nil
}

// GetAll возвращает копии всех сущностей.
func (s *Store[T]) GetAll(ctx context.Context, relations ...storage.Relation) ([]T, error) {
	return s.GetFiltered(ctx, nil, relations...)
}

// GetFiltered возвращает сущности, прошедшие предикат. nil-предикат
// пропускает всё.
func (s *Store[T]) GetFiltered(ctx context.Context, pred storage.Predicate[T], relations ...storage.Relation) ([]T, error) {
	s.mu.RLock()
	result := make([]T, 0, len(s.items))
	for _, entity := range s.items {
		if pred != nil && !pred(entity) {
			continue
		}
		result = append(result, s.clone(entity))
	}
	s.mu.RUnlock()

	for i := range result {
		if err := s.loadRelations(ctx, &result[i], relations); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// First возвращает первую сущность по предикату или storage.ErrNotFound.
func (s *Store[T]) First(ctx context.Context, pred storage.Predicate[T], relations ...storage.Relation) (T, error) {
	s.mu.RLock()
	var (
		found  bool
		entity T
	)
	for _, candidate := range s.items {
		if pred == nil || pred(candidate) {
			entity = s.clone(candidate)
			found = true
			break
		}
	}
	s.mu.RUnlock()

	var zero T
	if !found {
		return zero, storage.ErrNotFound
	}
	if err := s.loadRelations(ctx, &entity, relations); err != nil {
		return zero, err
	}
	return entity, nil
}

// Apply атомарно трансформирует сущность под write-lock'ом. Используется
// репозиториями для условных обновлений (optimistic locking, списание стока).
func (s *Store[T]) Apply(_ context.Context, id string, fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	next, err := fn(s.clone(current))
	if err != nil {
		return err
	}
	s.items[id] = s.clone(next)
	return nil
}

func (s *Store[T]) loadRelations(ctx context.Context, entity *T, relations []storage.Relation) error {
	for _, rel := range relations {
		loader, ok := s.loaders[rel]
		if !ok {
			return storage.ErrUnknownRelation
		}
		if err := loader(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// snapshot снимает копию состояния для rollback'а единицы работы.
func (s *Store[T]) snapshot() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]T, len(s.items))
	for id, entity := range s.items {
		snap[id] = s.clone(entity)
	}
	return snap
}

// restore откатывает состояние к ранее снятому снимку.
func (s *Store[T]) restore(snap map[string]T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap
}

var _ storage.Gateway[storage.Entity] = (*Store[storage.Entity])(nil)
