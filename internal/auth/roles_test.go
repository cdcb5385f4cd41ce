package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

func TestAuthorizeRoleOrder(t *testing.T) {
	user := domain.Identity{ID: "u1", Role: domain.RoleUser, Active: true}
	admin := domain.Identity{ID: "a1", Role: domain.RoleAdmin, Active: true}

	assert.NoError(t, Authorize(user, domain.RoleUser))
	assert.ErrorIs(t, Authorize(user, domain.RoleAdmin), ErrPermissionDenied)
	assert.NoError(t, Authorize(admin, domain.RoleUser))
	assert.NoError(t, Authorize(admin, domain.RoleAdmin))
}

func TestAuthorizeInactiveDeniedEverything(t *testing.T) {
	inactive := domain.Identity{ID: "a2", Role: domain.RoleAdmin, Active: false}

	assert.ErrorIs(t, Authorize(inactive, domain.RoleUser), ErrPermissionDenied)
	assert.ErrorIs(t, Authorize(inactive, domain.RoleAdmin), ErrPermissionDenied)
}

func TestAuthorizeUnknownRole(t *testing.T) {
	unknown := domain.Identity{ID: "x1", Role: domain.Role("superuser"), Active: true}

	assert.ErrorIs(t, Authorize(unknown, domain.RoleUser), ErrPermissionDenied)
}

func TestAuthorizeIsDeterministic(t *testing.T) {
	identity := domain.Identity{ID: "u1", Role: domain.RoleUser, Active: true}

	first := Authorize(identity, domain.RoleAdmin)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Authorize(identity, domain.RoleAdmin))
	}
}
