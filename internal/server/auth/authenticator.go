package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
)

// AccountFinder looks up active accounts. Implementations return
// common.ErrorNotFound when no active account matches.
type AccountFinder interface {
	GetActiveByEmail(ctx context.Context, email string) (*models.Account, error)
}

// PasswordHasher is satisfied by *cryptox.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// Authenticator checks an email and password pair.
type Authenticator struct {
	accounts  AccountFinder
	hasher    PasswordHasher
	dummyHash string
}

func NewAuthenticator(accounts AccountFinder, hasher PasswordHasher) (*Authenticator, error) {
	// verified against for unknown emails so both branches cost one hash
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}
	return &Authenticator{accounts: accounts, hasher: hasher, dummyHash: dummy}, nil
}

// Authenticate returns the active account for email if password matches.
// An unknown email and a wrong password both yield common.ErrorUnauthorized.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := a.accounts.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			a.hasher.Verify(password, a.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !a.hasher.Verify(password, account.HashedPassword) {
		return nil, common.ErrorUnauthorized
	}

	return account, nil
}
