package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/account-service/internal/core/domain"
	"github.com/taskhive/account-service/internal/core/ports"
)

// tokenTTL is deliberately fixed: there is no refresh flow, so a short trust
// window bounds the damage from a leaked token.
const tokenTTL = 2 * time.Hour

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// TokenService issues and verifies HS256 tokens with a single symmetric
// secret. The clock is injectable so expiry behaviour is testable.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService returns a TokenService, or an error when the secret is
// empty — running without a signing secret is a startup fault, not something
// to discover on the first sign-in.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the time source. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) Sign(claims ports.TokenClaims) (string, error) {
	issued := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(tokenTTL)),
		},
		UserID: claims.UserID,
		Email:  claims.Email,
	})
	return t.SignedString(s.secret)
}

func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	parsed := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, parsed, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	switch {
	case err == nil && tkn.Valid:
		return &ports.TokenClaims{UserID: parsed.UserID, Email: parsed.Email}, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrTokenSignatureInvalid
	default:
		return nil, domain.ErrTokenMalformed
	}
}
