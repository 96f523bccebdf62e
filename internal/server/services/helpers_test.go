package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophportal/internal/cryptox"
	"github.com/dmitrijs2005/gophportal/internal/logging"
	"github.com/dmitrijs2005/gophportal/internal/server/auth"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/dmitrijs2005/gophportal/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

var cheapParams = cryptox.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type fixture struct {
	manager *repomanager.MemoryRepositoryManager
	hasher  *cryptox.Hasher
	tokens  *auth.TokenService
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		manager: repomanager.NewMemoryRepositoryManager(),
		hasher:  cryptox.NewHasher(cheapParams),
		now:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	tokens, err := auth.NewTokenService([]byte("test-secret"), auth.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.tokens = tokens
	return f
}

// seed stores an active account with the given password and roles.
func (f *fixture) seed(t *testing.T, email, password string, roles ...models.Role) *models.Account {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	a, err := f.manager.Accounts().Create(context.Background(), &models.Account{
		Name: "Test", Surname: "User", Email: email, HashedPassword: hash, Active: true,
		Roles: models.NewRoleSet(roles...),
	})
	require.NoError(t, err)
	return a
}
