package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

func testIdentity() domain.Identity {
	return domain.Identity{
		ID:     "user-1",
		Email:  "admin@eden.com",
		Role:   domain.RoleAdmin,
		Active: true,
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, expiresAt, err := svc.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity(), identity)
}

func TestVerifyIsIdempotent(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, _, err := svc.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	first, err1 := svc.Verify(token)
	second, err2 := svc.Verify(token)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	base := time.Now()
	svc.now = func() time.Time { return base }

	token, _, err := svc.Issue(testIdentity(), time.Minute)
	require.NoError(t, err)

	// still valid just before expiry
	svc.now = func() time.Time { return base.Add(59 * time.Second) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, _, err := svc.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	for i := range parts {
		mutated := make([]string, 3)
		copy(mutated, parts)
		mutated[i] = flipFirstChar(parts[i])

		_, err := svc.Verify(strings.Join(mutated, "."))
		require.Error(t, err, "segment %d", i)
		assert.True(t,
			errors.Is(err, ErrTokenSignatureInvalid) || errors.Is(err, ErrTokenMalformed),
			"segment %d: got %v", i, err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, _, err := issuer.Issue(testIdentity(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func flipFirstChar(segment string) string {
	if segment == "" {
		return "A"
	}
	replacement := byte('A')
	if segment[0] == 'A' {
		replacement = 'B'
	}
	return string(replacement) + segment[1:]
}
