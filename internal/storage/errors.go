package storage

import "errors"

var (
	// ErrNotFound возвращается шлюзом, когда сущность отсутствует.
	// Репозитории переводят его в доменные not-found сентинелы.
	ErrNotFound = errors.New("entity not found")
	// ErrAlreadyExists возвращается при попытке добавить сущность с занятым ID.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrUnknownRelation возвращается при запросе незарегистрированной связи.
	ErrUnknownRelation = errors.New("unknown relation requested")
)
