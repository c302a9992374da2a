package docstore

import (
	"context"
	"errors"
)

// Пакет docstore реализует бессхемное документное хранилище с несколькими
// коллекциями. Хранилище передаётся зависимостью: репозитории работают
// с ним через интерфейс Store, указывая имя коллекции в каждом вызове.

var (
	// ErrNotFound возвращается, когда документ с данным id отсутствует.
	ErrNotFound = errors.New("docstore: документ не найден")
	// ErrExists возвращается при попытке добавить документ с занятым id.
	ErrExists = errors.New("docstore: документ уже существует")
	// ErrConflict возвращается, когда конкурентное обновление не удалось
	// применить за отведённое число попыток.
	ErrConflict = errors.New("docstore: конфликт версий документа")
)

// Filter задаёт фильтр равенства по верхнеуровневому полю документа.
// Значение сравнивается в текстовом представлении поля.
type Filter struct {
	Field string
	Value string
}

// UpdateFunc получает текущее содержимое документа и возвращает новое.
type UpdateFunc func(raw []byte) ([]byte, error)

// Store — интерфейс документного хранилища.
type Store interface {
	// Add добавляет новый документ. ErrExists, если id занят.
	Add(ctx context.Context, collection, id string, doc any) error
	// Get читает документ в out. ErrNotFound, если документа нет.
	Get(ctx context.Context, collection, id string, out any) error
	// Set целиком заменяет существующий документ. ErrNotFound, если документа нет.
	Set(ctx context.Context, collection, id string, doc any) error
	// Update атомарно изменяет документ через fn.
	Update(ctx context.Context, collection, id string, fn UpdateFunc) error
	// Delete удаляет документ. ErrNotFound, если документа нет.
	Delete(ctx context.Context, collection, id string) error
	// Query читает в out (*[]T) документы, удовлетворяющие всем фильтрам.
	Query(ctx context.Context, collection string, filters []Filter, out any) error
	// All читает в out (*[]T) все документы коллекции.
	All(ctx context.Context, collection string, out any) error
	// Count возвращает число документов в коллекции.
	Count(ctx context.Context, collection string) (int, error)
}
