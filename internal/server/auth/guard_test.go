package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func account(id string, roles ...models.Role) *models.Account {
	return &models.Account{ID: id, Email: id + "@example.com", Active: true, Roles: models.NewRoleSet(roles...)}
}

func TestResolveCurrentIdentity(t *testing.T) {
	ts, clock := newTestTokenService(t, "k")
	alice := account("alice", models.RoleUser)
	finder := &fakeFinder{byEmail: map[string]*models.Account{alice.Email: alice}}
	g := NewGuard(ts, finder)

	tok, _, err := ts.Issue(alice.Email, nil, time.Minute)
	require.NoError(t, err)

	t.Run("valid token resolves account", func(t *testing.T) {
		got, err := g.ResolveCurrentIdentity(context.Background(), tok)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := g.ResolveCurrentIdentity(context.Background(), "garbage")
		assert.ErrorIs(t, err, common.ErrInvalidToken)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("unknown subject", func(t *testing.T) {
		ghost, _, err := ts.Issue("ghost@example.com", nil, time.Minute)
		require.NoError(t, err)
		_, err = g.ResolveCurrentIdentity(context.Background(), ghost)
		assert.ErrorIs(t, err, common.ErrUnknownSubject)
	})

	t.Run("deactivated after issuance", func(t *testing.T) {
		alice.Active = false
		defer func() { alice.Active = true }()

		_, err := g.ResolveCurrentIdentity(context.Background(), tok)
		assert.ErrorIs(t, err, common.ErrUnknownSubject)
	})

	t.Run("looks the account up on every call", func(t *testing.T) {
		finder.calls = 0
		for i := 0; i < 3; i++ {
			_, err := g.ResolveCurrentIdentity(context.Background(), tok)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, finder.calls)
	})

	t.Run("expired", func(t *testing.T) {
		clock.Advance(time.Hour)
		defer clock.Advance(-time.Hour)

		_, err := g.ResolveCurrentIdentity(context.Background(), tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
		assert.ErrorIs(t, err, ErrExpired)
	})
}

func TestResolveCurrentIdentity_StorageError(t *testing.T) {
	ts, _ := newTestTokenService(t, "k")
	g := NewGuard(ts, &fakeFinder{err: errors.New("db down")})

	tok, _, err := ts.Issue("a@example.com", nil, time.Minute)
	require.NoError(t, err)

	_, err = g.ResolveCurrentIdentity(context.Background(), tok)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name    string
		current *models.Account
		target  string
		want    bool
	}{
		{"self without roles", account("a"), "a", true},
		{"self ordinary", account("a", models.RoleUser), "a", true},
		{"self superadmin", account("a", models.RoleSuperAdmin), "a", true},
		{"other as ordinary", account("a", models.RoleUser), "b", false},
		{"other without roles", account("a"), "b", false},
		{"other as admin", account("a", models.RoleAdmin), "b", true},
		{"other as superadmin", account("a", models.RoleSuperAdmin), "b", true},
		{"nil current", nil, "b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.current, tt.target))

			err := CheckModify(tt.current, tt.target)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrForbidden)
			}
		})
	}
}

func TestCheckRoleChange(t *testing.T) {
	tests := []struct {
		name    string
		current *models.Account
		target  string
		wantErr bool
		wantMsg string
	}{
		{"superadmin on other", account("s", models.RoleSuperAdmin), "b", false, ""},
		{"superadmin on self", account("s", models.RoleSuperAdmin), "s", true, "cannot manage own privileges"},
		{"admin on self", account("a", models.RoleAdmin), "a", true, "cannot manage own privileges"},
		{"admin on other", account("a", models.RoleAdmin), "b", true, "superadmin role required"},
		{"ordinary on other", account("u", models.RoleUser), "b", true, "superadmin role required"},
		{"nil current", nil, "b", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRoleChange(tt.current, tt.target)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrForbidden)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
