package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"parkfinder/internal/domain/entities"
	"parkfinder/internal/repository"
	"parkfinder/pkg/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("username and password required")
)

// AccountService handles registration, login and the per-user price
// weight preference. Sessions are opaque bearer tokens held in memory;
// a restart logs everyone out, which is acceptable for this service.
type AccountService struct {
	users repository.UserRepository

	mu     sync.RWMutex
	tokens map[string]string // token -> username
}

func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{
		users:  users,
		tokens: make(map[string]string),
	}
}

// Register creates an account with a bcrypt-hashed password and the
// default price weight.
func (s *AccountService) Register(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entities.NewUser(username, hash)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues a bearer token. Lookup
// failures and hash mismatches both map to ErrInvalidCredentials so the
// response does not reveal which usernames exist.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token := utils.GenerateID()
	s.mu.Lock()
	s.tokens[token] = username
	s.mu.Unlock()

	return token, nil
}

// Logout invalidates a token. Unknown tokens are a no-op.
func (s *AccountService) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Authenticate resolves a bearer token to a username.
func (s *AccountService) Authenticate(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.tokens[token]
	return username, ok
}

// PriceWeight returns the user's stored preference.
func (s *AccountService) PriceWeight(ctx context.Context, username string) (float64, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return user.PriceWeight, nil
}

// SetPriceWeight stores a preference, clamped to [0, 1].
func (s *AccountService) SetPriceWeight(ctx context.Context, username string, weight float64) (float64, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	user.PriceWeight = entities.ClampWeight(weight)
	if err := s.users.Update(ctx, user); err != nil {
		return 0, err
	}
	return user.PriceWeight, nil
}
