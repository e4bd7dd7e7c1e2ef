package memory

import (
	"context"
	"errors"
	"sync"

	"parkfinder/internal/domain/entities"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already exists")
)

// UserRepository stores registered accounts keyed by username.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*entities.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return ErrUserExists
	}
	r.users[user.Username] = user
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; !exists {
		return ErrUserNotFound
	}
	r.users[user.Username] = user
	return nil
}
