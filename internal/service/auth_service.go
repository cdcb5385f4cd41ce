package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/config"
	"github.com/eden-labs/trading-gateway/internal/domain"
	"github.com/eden-labs/trading-gateway/internal/repository"
)

// Login failures. The handler maps these onto the exact responses the
// frontend expects; unknown email and wrong password are deliberately
// indistinguishable.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("inactive user")
)

// AuthService coordinates the login flow: credential check against the
// user store, then token issuance. Verification of issued tokens happens
// in the auth package without touching this service.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	ttl    time.Duration
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokens *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		ttl:    cfg.TokenTTL(),
		logger: logger,
	}
}

// Login authenticates by email and password and issues an access token
// embedding the identity snapshot.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Identity, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, "", time.Time{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return domain.Identity{}, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.Active {
		return domain.Identity{}, "", time.Time{}, ErrInactiveUser
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	identity := user.Identity()
	token, expiresAt, err := s.tokens.Issue(identity, s.ttl)
	if err != nil {
		return domain.Identity{}, "", time.Time{}, err
	}
	return identity, token, expiresAt, nil
}

// TokenService exposes the underlying token service for middleware and the
// websocket handshake.
func (s *AuthService) TokenService() *auth.TokenService {
	return s.tokens
}
