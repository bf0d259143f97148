package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

type UserRepositoryImpl struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() repositories.UserRepository {
	return &UserRepositoryImpl{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return repositories.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}
