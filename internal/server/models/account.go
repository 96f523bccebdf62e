package models

import "time"

// Account is a stored identity. HashedPassword never leaves the server: it is
// excluded from JSON and only ever compared through cryptox.Hasher.Verify.
type Account struct {
	ID             string    `json:"user_id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Active         bool      `json:"is_active"`
	Roles          RoleSet   `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}

func (a *Account) IsAdmin() bool      { return a.Roles.IsAdmin() }
func (a *Account) IsSuperAdmin() bool { return a.Roles.IsSuperAdmin() }

// AccountDelta lists the fields an update may change. Nil fields are left as
// they are.
type AccountDelta struct {
	Name    *string
	Surname *string
	Email   *string
	Roles   RoleSet
}

// IsEmpty reports whether the delta changes nothing.
func (d AccountDelta) IsEmpty() bool {
	return d.Name == nil && d.Surname == nil && d.Email == nil && d.Roles == nil
}
