// Package storage описывает обобщённый контракт хранилища, не привязанный
// к конкретному движку. Движок (in-memory, PostgreSQL) обязан соблюдать
// семантику контракта, но формат хранения остаётся его деталью.
package storage

import "context"

// Entity — минимальное требование к хранимой сущности: устойчивый
// идентификатор, назначенный при создании.
type Entity interface {
	EntityID() string
}

// Relation — типизированный тег eager-загрузки связанных сущностей.
// Теги объявляются константами рядом с доменными типами, поэтому опечатка
// в имени связи не проходит компиляцию, в отличие от строковых путей.
type Relation string

// Predicate — фильтр выборки для GetFiltered/First.
type Predicate[T Entity] func(T) bool

// Gateway — параметризованный по типу сущности шлюз персистентности.
// Любая операция либо возвращает данные, либо ErrNotFound/пустой срез;
// "не найдено" никогда не является паникой или внутренней ошибкой.
type Gateway[T Entity] interface {
	// Add сохраняет новую сущность; ErrAlreadyExists при занятом ID.
	Add(ctx context.Context, entity T) error
	// Update перезаписывает существующую сущность; ErrNotFound, если её нет.
	Update(ctx context.Context, entity T) error
	// Delete удаляет сущность по ID; ErrNotFound, если её нет.
	Delete(ctx context.Context, id string) error
	// GetByID возвращает сущность, догружая запрошенные связи.
	GetByID(ctx context.Context, id string, relations ...Relation) (T, error)
	// GetAll возвращает все сущности.
	GetAll(ctx context.Context, relations ...Relation) ([]T, error)
	// GetFiltered возвращает сущности, прошедшие предикат.
	GetFiltered(ctx context.Context, pred Predicate[T], relations ...Relation) ([]T, error)
	// First возвращает первую сущность по предикату или ErrNotFound.
	First(ctx context.Context, pred Predicate[T], relations ...Relation) (T, error)
}
