// Package services contains server-side business logic shared by the gRPC
// and HTTP transports: login, account management and avatar storage.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/logging"
	"github.com/dmitrijs2005/gophportal/internal/server/auth"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/dmitrijs2005/gophportal/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophportal/internal/server/repositories/repomanager"
)

// Rehasher reports whether a stored hash should be replaced on next login.
type Rehasher interface {
	auth.PasswordHasher
	NeedsRehash(encoded string) bool
}

// Token is an issued bearer token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// AuthService logs accounts in and resolves bearer tokens back to accounts.
type AuthService struct {
	repomanager   repomanager.RepositoryManager
	hasher        Rehasher
	tokens        *auth.TokenService
	authenticator *auth.Authenticator
	guard         *auth.Guard
	limiter       ratelimit.Limiter
	logger        logging.Logger
}

func NewAuthService(m repomanager.RepositoryManager, hasher Rehasher, tokens *auth.TokenService,
	limiter ratelimit.Limiter, logger logging.Logger) (*AuthService, error) {

	authenticator, err := auth.NewAuthenticator(m.Accounts(), hasher)
	if err != nil {
		return nil, err
	}
	if limiter == nil {
		limiter = ratelimit.Nop{}
	}

	return &AuthService{
		repomanager:   m,
		hasher:        hasher,
		tokens:        tokens,
		authenticator: authenticator,
		guard:         auth.NewGuard(tokens, m.Accounts()),
		limiter:       limiter,
		logger:        logger.With("module", "auth"),
	}, nil
}

func limiterKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues an access token whose subject is the
// account email. Unknown emails and wrong passwords both yield
// common.ErrorUnauthorized; too many recent failures for the email yield
// common.ErrTooManyAttempts. Limiter outages are logged and do not block
// logins.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	key := limiterKey(email)

	allowed, err := s.limiter.Allowed(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "login limiter unavailable", "error", err.Error())
		allowed = true
	}
	if !allowed {
		s.logger.Warn(ctx, "login throttled")
		return nil, common.ErrTooManyAttempts
	}

	account, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			if ferr := s.limiter.Fail(ctx, key); ferr != nil {
				s.logger.Warn(ctx, "login limiter unavailable", "error", ferr.Error())
			}
			s.logger.Info(ctx, "login failed")
		}
		return nil, err
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn(ctx, "login limiter unavailable", "error", err.Error())
	}

	s.upgradeHash(ctx, account, password)

	token, expiresAt, err := s.tokens.Issue(account.Email, map[string]any{"user_id": account.ID}, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "login succeeded", "user_id", account.ID)
	return &Token{AccessToken: token, TokenType: common.TokenType, ExpiresAt: expiresAt}, nil
}

// upgradeHash replaces a legacy or weaker hash after a successful login.
// Failures are logged; the login itself still succeeds.
func (s *AuthService) upgradeHash(ctx context.Context, account *models.Account, password string) {
	if !s.hasher.NeedsRehash(account.HashedPassword) {
		return
	}

	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.repomanager.Accounts().UpdatePasswordHash(ctx, account.ID, hash)
	}
	if err != nil {
		s.logger.Warn(ctx, "password rehash failed", "user_id", account.ID, "error", err.Error())
		return
	}
	s.logger.Info(ctx, "password hash upgraded", "user_id", account.ID)
}

// CurrentIdentity resolves a bearer token to its active account. Failures
// are common.ErrInvalidToken or common.ErrUnknownSubject, both of which
// transports report as unauthenticated, or common.ErrorInternal.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (*models.Account, error) {
	account, err := s.guard.ResolveCurrentIdentity(ctx, token)
	if err != nil && !errors.Is(err, common.ErrorInternal) {
		s.logger.Debug(ctx, "token rejected", "reason", err.Error())
	}
	return account, err
}
