package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
)

const userCollection = "users"

// userDocument — представление пользователя в хранилище. Хэш пароля
// исключён из сериализации models.User и сохраняется отдельным полем.
type userDocument struct {
	models.User
	StoredPasswordHash string `json:"passwordHash"`
}

// UserRepository отвечает за доступ к коллекции users.
type UserRepository struct {
	store docstore.Store
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create сохраняет нового пользователя. Email должен быть уникальным.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	doc := userDocument{User: *user, StoredPasswordHash: user.PasswordHash}
	if err := r.store.Add(ctx, userCollection, user.ID, doc); err != nil {
		return fmt.Errorf("user repository: create: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var doc userDocument
	err := r.store.Get(ctx, userCollection, id, &doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user repository: get by id: %w", err)
	}

	user := doc.User
	user.PasswordHash = doc.StoredPasswordHash
	return &user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var docs []userDocument
	filters := []docstore.Filter{{Field: "email", Value: email}}
	if err := r.store.Query(ctx, userCollection, filters, &docs); err != nil {
		return nil, fmt.Errorf("user repository: get by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}

	user := docs[0].User
	user.PasswordHash = docs[0].StoredPasswordHash
	return &user, nil
}

// Update атомарно изменяет пользователя через fn.
func (r *UserRepository) Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	doc, err := updateDoc(ctx, r.store, userCollection, id, func(d *userDocument) error {
		user := d.User
		user.PasswordHash = d.StoredPasswordHash
		if err := fn(&user); err != nil {
			return err
		}
		d.User = user
		d.StoredPasswordHash = user.PasswordHash
		return nil
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user repository: update: %w", err)
	}

	user := doc.User
	user.PasswordHash = doc.StoredPasswordHash
	return &user, nil
}
