// Package accounts stores portal accounts. Every lookup only sees active
// accounts: a soft-deleted account is indistinguishable from a missing one.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.Account, error)
	GetActiveByID(ctx context.Context, id string) (*models.Account, error)
	// GetActiveByIDForUpdate locks the row until the surrounding transaction
	// ends. Outside a transaction it behaves like GetActiveByID.
	GetActiveByIDForUpdate(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, id string, delta models.AccountDelta) (string, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	SoftDelete(ctx context.Context, id string) (string, error)
}
