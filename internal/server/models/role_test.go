package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleSet_Capabilities(t *testing.T) {
	tests := []struct {
		name       string
		roles      RoleSet
		admin      bool
		superadmin bool
	}{
		{"empty", RoleSet{}, false, false},
		{"ordinary", NewRoleSet(RoleUser), false, false},
		{"admin", NewRoleSet(RoleUser, RoleAdmin), true, false},
		{"superadmin", NewRoleSet(RoleSuperAdmin), false, true},
		{"both", NewRoleSet(RoleAdmin, RoleSuperAdmin), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admin, tt.roles.IsAdmin())
			assert.Equal(t, tt.superadmin, tt.roles.IsSuperAdmin())

			a := &Account{Roles: tt.roles}
			assert.Equal(t, tt.admin, a.IsAdmin())
			assert.Equal(t, tt.superadmin, a.IsSuperAdmin())
		})
	}
}

func TestNewRoleSet_Deduplicates(t *testing.T) {
	s := NewRoleSet(RoleUser, RoleAdmin, RoleUser)
	assert.Equal(t, RoleSet{RoleUser, RoleAdmin}, s)
}

func TestGrantAdmin(t *testing.T) {
	in := NewRoleSet(RoleUser)
	out, err := GrantAdmin(in)
	require.NoError(t, err)
	assert.True(t, out.IsAdmin())
	assert.True(t, out.Has(RoleUser))
	assert.Equal(t, RoleSet{RoleUser}, in, "input must not be modified")

	out, err = GrantAdmin(nil)
	require.NoError(t, err)
	assert.Equal(t, RoleSet{RoleAdmin}, out)
}

func TestGrantAdmin_Conflict(t *testing.T) {
	for _, roles := range []RoleSet{
		NewRoleSet(RoleUser, RoleAdmin),
		NewRoleSet(RoleSuperAdmin),
	} {
		out, err := GrantAdmin(roles)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, common.ErrConflict), "roles %v: got %v", roles, err)
	}
}

func TestRevokeAdmin(t *testing.T) {
	in := NewRoleSet(RoleUser, RoleAdmin)
	out, err := RevokeAdmin(in)
	require.NoError(t, err)
	assert.Equal(t, RoleSet{RoleUser}, out)
	assert.True(t, in.IsAdmin(), "input must not be modified")
}

func TestRevokeAdmin_Conflict(t *testing.T) {
	for _, roles := range []RoleSet{nil, NewRoleSet(RoleUser), NewRoleSet(RoleSuperAdmin)} {
		_, err := RevokeAdmin(roles)
		assert.ErrorIs(t, err, common.ErrConflict)
	}
}

func TestRoleSet_ValueScan(t *testing.T) {
	v, err := NewRoleSet(RoleUser, RoleAdmin).Value()
	require.NoError(t, err)
	assert.Equal(t, "{ROLE_PORTAL_USER,ROLE_PORTAL_ADMIN}", v)

	var s RoleSet
	require.NoError(t, s.Scan([]byte(`{ROLE_PORTAL_USER,"ROLE_PORTAL_ADMIN"}`)))
	assert.Equal(t, RoleSet{RoleUser, RoleAdmin}, s)

	require.NoError(t, s.Scan("{}"))
	assert.Equal(t, RoleSet{}, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, RoleSet{}, s)
}

func TestRoleSet_ScanRejectsGarbage(t *testing.T) {
	var s RoleSet
	assert.Error(t, s.Scan("ROLE_PORTAL_USER"))
	assert.Error(t, s.Scan("{ROLE_ROOT}"))
	assert.Error(t, s.Scan(42))
}

func TestAccountDelta_IsEmpty(t *testing.T) {
	assert.True(t, AccountDelta{}.IsEmpty())
	name := "Ann"
	assert.False(t, AccountDelta{Name: &name}.IsEmpty())
	assert.False(t, AccountDelta{Roles: RoleSet{}}.IsEmpty())
}
