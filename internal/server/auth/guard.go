package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
)

// TokenValidator is satisfied by *TokenService.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// Guard resolves the caller behind a bearer token and decides whether it may
// act on a target account.
type Guard struct {
	tokens   TokenValidator
	accounts AccountFinder
}

func NewGuard(tokens TokenValidator, accounts AccountFinder) *Guard {
	return &Guard{tokens: tokens, accounts: accounts}
}

// ResolveCurrentIdentity validates token and loads the active account named by
// its subject. The account is looked up on every call so deactivation takes
// effect before the token expires.
//
// Errors: common.ErrInvalidToken (wrapping ErrBadSignature or ErrExpired),
// common.ErrUnknownSubject, or common.ErrorInternal for storage failures.
func (g *Guard) ResolveCurrentIdentity(ctx context.Context, token string) (*models.Account, error) {
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	account, err := g.accounts.GetActiveByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownSubject
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return account, nil
}

// CanModify reports whether current may update or delete the account with
// targetID: always for itself, otherwise only as admin or superadmin.
func CanModify(current *models.Account, targetID string) bool {
	if current == nil {
		return false
	}
	if current.ID == targetID {
		return true
	}
	return current.IsAdmin() || current.IsSuperAdmin()
}

// CheckModify is CanModify as an error: common.ErrForbidden on denial.
func CheckModify(current *models.Account, targetID string) error {
	if !CanModify(current, targetID) {
		return fmt.Errorf("%w: not allowed to modify this account", common.ErrForbidden)
	}
	return nil
}

// CheckRoleChange gates granting and revoking admin privileges. A self-target
// is rejected first, then any caller that is not a superadmin.
func CheckRoleChange(current *models.Account, targetID string) error {
	if current == nil {
		return common.ErrForbidden
	}
	if current.ID == targetID {
		return fmt.Errorf("%w: cannot manage own privileges", common.ErrForbidden)
	}
	if !current.IsSuperAdmin() {
		return fmt.Errorf("%w: superadmin role required", common.ErrForbidden)
	}
	return nil
}
