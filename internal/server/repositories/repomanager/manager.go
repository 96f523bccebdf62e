package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophportal/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories and runs work that must see a single
// consistent view of the store.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	// WithTx runs fn with repositories bound to one transaction. fn's error
	// rolls the transaction back and is returned unchanged.
	WithTx(ctx context.Context, fn func(ctx context.Context, accounts accounts.Repository) error) error
	Close() error
}
