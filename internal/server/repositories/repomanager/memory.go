package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophportal/internal/server/repositories/accounts"
)

// MemoryRepositoryManager serves a single in-memory accounts store. WithTx
// serializes callers with a mutex; it does not roll back partial writes.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	accounts *accounts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Accounts() accounts.Repository       { return m.accounts }
func (m *MemoryRepositoryManager) Close() error                        { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, accounts accounts.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.accounts)
}
