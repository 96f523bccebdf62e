// Package auth is the authentication and authorization core: bearer token
// issuance and validation, password authentication and the permission guard
// that gates account mutations.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used by Issue when the caller passes ttl <= 0 and no
// other default was configured.
const DefaultTokenTTL = 30 * time.Minute

var (
	// ErrBadSignature covers a wrong key, tampering and malformed tokens.
	ErrBadSignature = errors.New("token signature is invalid")
	// ErrExpired is returned for a correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
)

// Claims is the payload of an access token. Subject carries the account email.
type Claims struct {
	jwt.RegisteredClaims
	Extra map[string]any `json:"ext,omitempty"`
}

// TokenService issues and validates HS256 tokens. It is safe for concurrent
// use; its fields are never modified after construction.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithDefaultTTL sets the lifetime used when Issue is called with ttl <= 0.
func WithDefaultTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	s := &TokenService{
		secret:     secret,
		defaultTTL: DefaultTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultTTL returns the lifetime applied when Issue gets ttl <= 0.
func (s *TokenService) DefaultTTL() time.Duration { return s.defaultTTL }

// Issue signs a token for subject that expires at now+ttl.
func (s *TokenService) Issue(subject string, extra map[string]any, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject must not be empty")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Extra: extra,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Validate checks the signature, then the expiry, and returns the claims.
// It fails with ErrBadSignature or ErrExpired.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrBadSignature
	}

	return claims, nil
}
