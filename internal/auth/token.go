package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/eden-labs/trading-gateway/internal/domain"
)

// Token verification failures. Everything a client can cause maps onto one
// of these three; anything else is an internal signing problem.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// TokenService issues and verifies signed session tokens. The secret is
// process-wide and read-only after construction; verification needs no I/O.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds the service with the process-wide signing secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the JWT payload. The full identity snapshot is embedded
// so Verify can reconstruct it without touching storage.
type Claims struct {
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Active bool        `json:"active"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the identity, valid for ttl. A zero
// ttl uses the configured default.
func (s *TokenService) Issue(identity domain.Identity, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	issuedAt := s.now()
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Email:  identity.Email,
		Role:   identity.Role,
		Active: identity.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the signature and expiry and reconstructs the embedded
// identity. It is deterministic for a fixed secret and clock: the same
// string always yields the same outcome, and a tampered token never
// verifies.
func (s *TokenService) Verify(tokenStr string) (domain.Identity, error) {
	identity, _, err := s.VerifyWithExpiry(tokenStr)
	return identity, err
}

// VerifyWithExpiry additionally returns the token's expiry, which the
// websocket handshake needs for optional live-session rechecks.
func (s *TokenService) VerifyWithExpiry(tokenStr string) (domain.Identity, time.Time, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return domain.Identity{}, time.Time{}, classifyTokenError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, time.Time{}, ErrTokenMalformed
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return domain.Identity{}, time.Time{}, ErrTokenMalformed
	}

	identity := domain.Identity{
		ID:     claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Active: claims.Active,
	}
	return identity, claims.ExpiresAt.Time, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}
