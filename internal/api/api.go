// Package api declares the PortalService gRPC contract shared by the server
// and the CLI client. Messages are plain Go structs carried by a JSON codec,
// so no generated code is involved.
package api

import (
	"time"

	"github.com/dmitrijs2005/gophportal/internal/server/models"
)

const ServiceName = "gophportal.PortalService"

// Full method names.
const (
	MethodPing                 = "/" + ServiceName + "/Ping"
	MethodCreateAccount        = "/" + ServiceName + "/CreateAccount"
	MethodLogin                = "/" + ServiceName + "/Login"
	MethodGetAccount           = "/" + ServiceName + "/GetAccount"
	MethodUpdateAccount        = "/" + ServiceName + "/UpdateAccount"
	MethodDeleteAccount        = "/" + ServiceName + "/DeleteAccount"
	MethodGrantAdmin           = "/" + ServiceName + "/GrantAdmin"
	MethodRevokeAdmin          = "/" + ServiceName + "/RevokeAdmin"
	MethodGetAvatarUploadURL   = "/" + ServiceName + "/GetAvatarUploadURL"
	MethodGetAvatarDownloadURL = "/" + ServiceName + "/GetAvatarDownloadURL"
)

// PublicMethods can be called without a bearer token.
var PublicMethods = map[string]bool{
	MethodPing:          true,
	MethodCreateAccount: true,
	MethodLogin:         true,
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the public view of an account. It never carries the password
// hash.
type Account struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type GetAccountRequest struct {
	UserID string `json:"user_id"`
}

type UpdateAccountRequest struct {
	UserID  string  `json:"user_id"`
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Email   *string `json:"email,omitempty"`
}

type UpdateAccountResponse struct {
	UpdatedUserID string `json:"updated_user_id"`
}

type DeleteAccountRequest struct {
	UserID string `json:"user_id"`
}

type DeleteAccountResponse struct {
	DeletedUserID string `json:"delete_user_id"`
}

type AdminPrivilegeRequest struct {
	UserID string `json:"user_id"`
}

type AdminPrivilegeResponse struct {
	UpdatedUserID string `json:"updated_user_id"`
}

type AvatarURLRequest struct {
	UserID string `json:"user_id"`
}

type AvatarURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountFromModel builds the public view of a stored account.
func AccountFromModel(a *models.Account) *Account {
	return &Account{
		UserID:    a.ID,
		Name:      a.Name,
		Surname:   a.Surname,
		Email:     a.Email,
		IsActive:  a.Active,
		Roles:     a.Roles.Strings(),
		CreatedAt: a.CreatedAt,
	}
}
