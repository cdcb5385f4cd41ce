package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/config"
	"github.com/eden-labs/trading-gateway/internal/domain"
	"github.com/eden-labs/trading-gateway/internal/repository"
)

func newTestAuthService(t *testing.T, seeds []repository.SeedAccount) *AuthService {
	t.Helper()
	// minimum bcrypt cost keeps the tests fast
	users, err := repository.NewMemoryUserRepository(seeds, 4)
	require.NoError(t, err)

	tokens := auth.NewTokenService("test-secret", time.Hour)
	cfg := config.AuthConfig{AccessTokenTTLMinutes: 60}
	return NewAuthService(cfg, users, tokens, zap.NewNop())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestAuthService(t, repository.DefaultSeedAccounts())

	identity, token, expiresAt, err := svc.Login(context.Background(), "admin@eden.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin@eden.com", identity.Email)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
	assert.True(t, expiresAt.After(time.Now()))

	verified, err := svc.TokenService().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, verified)

	// the admin token passes the admin gate, a user token does not
	assert.NoError(t, auth.Authorize(verified, domain.RoleAdmin))

	userIdentity, _, _, err := svc.Login(context.Background(), "trader@eden.com", "trader123")
	require.NoError(t, err)
	assert.ErrorIs(t, auth.Authorize(userIdentity, domain.RoleAdmin), auth.ErrPermissionDenied)
	assert.NoError(t, auth.Authorize(userIdentity, domain.RoleUser))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, repository.DefaultSeedAccounts())

	_, _, _, err := svc.Login(context.Background(), "admin@eden.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t, repository.DefaultSeedAccounts())

	_, _, _, err := svc.Login(context.Background(), "nobody@eden.com", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	seeds := []repository.SeedAccount{
		{Email: "ghost@eden.com", Password: "ghost123", Role: domain.RoleUser, Active: false},
	}
	svc := newTestAuthService(t, seeds)

	_, _, _, err := svc.Login(context.Background(), "ghost@eden.com", "ghost123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}
