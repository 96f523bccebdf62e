package client

import (
	"context"

	"github.com/dmitrijs2005/gophportal/internal/api"
)

// Client is the surface of the portal used by the CLI.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, surname, email string, password []byte) (*api.Account, error)
	Login(ctx context.Context, email string, password []byte) error
	Logout()
	LoggedIn() bool
	GetAccount(ctx context.Context, userID string) (*api.Account, error)
	UpdateAccount(ctx context.Context, req *api.UpdateAccountRequest) (string, error)
	DeleteAccount(ctx context.Context, userID string) (string, error)
	GrantAdmin(ctx context.Context, userID string) (string, error)
	RevokeAdmin(ctx context.Context, userID string) (string, error)
	AvatarUploadURL(ctx context.Context, userID string) (*api.AvatarURLResponse, error)
	AvatarDownloadURL(ctx context.Context, userID string) (*api.AvatarURLResponse, error)
}

var _ Client = (*GRPCClient)(nil)
