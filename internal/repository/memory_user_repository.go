package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/domain"
)

// memoryUserRepository backs the service when no Postgres DSN is
// configured. It is seeded with the default demo accounts so the gateway
// is usable out of the box.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// SeedAccount describes one account to create at startup.
type SeedAccount struct {
	Email    string
	FullName string
	Password string
	Role     domain.Role
	Active   bool
}

// DefaultSeedAccounts are the accounts provisioned when running without a
// database.
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{Email: "admin@eden.com", FullName: "System Administrator", Password: "admin123", Role: domain.RoleAdmin, Active: true},
		{Email: "trader@eden.com", FullName: "Demo Trader", Password: "trader123", Role: domain.RoleUser, Active: true},
	}
}

// NewMemoryUserRepository builds an in-memory store seeded with the given
// accounts.
func NewMemoryUserRepository(seeds []SeedAccount, bcryptCost int) (UserRepository, error) {
	repo := &memoryUserRepository{users: make(map[string]*domain.User)}
	for _, seed := range seeds {
		hash, err := auth.HashPassword(seed.Password, bcryptCost)
		if err != nil {
			return nil, err
		}
		user := &domain.User{
			ID:           uuid.NewString(),
			Email:        seed.Email,
			FullName:     seed.FullName,
			PasswordHash: hash,
			Role:         seed.Role,
			Active:       seed.Active,
			CreatedAt:    time.Now(),
		}
		repo.users[user.ID] = user
	}
	return repo, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLogin = &at
	return nil
}
