package models

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophportal/internal/common"
)

// Role is a capability tag attached to an account.
type Role string

const (
	RoleUser       Role = "ROLE_PORTAL_USER"
	RoleAdmin      Role = "ROLE_PORTAL_ADMIN"
	RoleSuperAdmin Role = "ROLE_PORTAL_SUPERADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// RoleSet is a small set of roles kept as a slice without duplicates.
// It is stored in PostgreSQL as text[].
type RoleSet []Role

func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		s = s.with(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool    { return slices.Contains(s, r) }
func (s RoleSet) IsAdmin() bool      { return s.Has(RoleAdmin) }
func (s RoleSet) IsSuperAdmin() bool { return s.Has(RoleSuperAdmin) }

func (s RoleSet) with(r Role) RoleSet {
	if s.Has(r) {
		return s
	}
	return append(s, r)
}

// GrantAdmin returns a new set with RoleAdmin added. Accounts that are
// already admin or superadmin yield common.ErrConflict. s is not modified.
func GrantAdmin(s RoleSet) (RoleSet, error) {
	if s.IsAdmin() || s.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: account already has admin privileges", common.ErrConflict)
	}
	out := slices.Clone(s)
	if out == nil {
		out = RoleSet{}
	}
	return out.with(RoleAdmin), nil
}

// RevokeAdmin returns a new set without RoleAdmin. Accounts that are not
// admin yield common.ErrConflict. s is not modified.
func RevokeAdmin(s RoleSet) (RoleSet, error) {
	if !s.IsAdmin() {
		return nil, fmt.Errorf("%w: account has no admin privileges", common.ErrConflict)
	}
	out := make(RoleSet, 0, len(s))
	for _, r := range s {
		if r != RoleAdmin {
			out = append(out, r)
		}
	}
	return out, nil
}

// Strings returns the roles as plain strings, e.g. for token claims.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Value encodes the set as a PostgreSQL array literal.
func (s RoleSet) Value() (driver.Value, error) {
	return "{" + strings.Join(s.Strings(), ",") + "}", nil
}

// Scan decodes a PostgreSQL text[] literal such as {ROLE_PORTAL_USER}.
// Unknown tags are rejected so a corrupted row never grants anything.
func (s *RoleSet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleSet", src)
	}

	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
		return fmt.Errorf("invalid role array %q", raw)
	}
	body := raw[1 : len(raw)-1]

	out := RoleSet{}
	if body == "" {
		*s = out
		return nil
	}
	for _, item := range strings.Split(body, ",") {
		r := Role(strings.Trim(strings.TrimSpace(item), `"`))
		if !r.Valid() {
			return fmt.Errorf("unknown role %q", r)
		}
		out = out.with(r)
	}
	*s = out
	return nil
}
