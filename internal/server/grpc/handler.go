package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *api.CreateAccountRequest) (*api.Account, error) {

	s.logger.Info(ctx, "Registration request")

	account, err := s.accounts.Create(ctx, services.CreateAccountInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return api.AccountFromModel(account), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	token, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.LoginResponse{AccessToken: token.AccessToken, TokenType: token.TokenType, ExpiresAt: token.ExpiresAt}, nil
}

func requireUserID(id string) error {
	if id == "" {
		return status.Error(codes.InvalidArgument, "user_id is required")
	}
	return nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, req *api.GetAccountRequest) (*api.Account, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	account, err := s.accounts.Get(ctx, current, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return api.AccountFromModel(account), nil
}

func (s *GRPCServer) UpdateAccount(ctx context.Context, req *api.UpdateAccountRequest) (*api.UpdateAccountResponse, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	id, err := s.accounts.Update(ctx, current, req.UserID, services.UpdateAccountInput{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.UpdateAccountResponse{UpdatedUserID: id}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *api.DeleteAccountRequest) (*api.DeleteAccountResponse, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	id, err := s.accounts.Delete(ctx, current, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.DeleteAccountResponse{DeletedUserID: id}, nil
}

func (s *GRPCServer) GrantAdmin(ctx context.Context, req *api.AdminPrivilegeRequest) (*api.AdminPrivilegeResponse, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	id, err := s.accounts.GrantAdmin(ctx, current, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.AdminPrivilegeResponse{UpdatedUserID: id}, nil
}

func (s *GRPCServer) RevokeAdmin(ctx context.Context, req *api.AdminPrivilegeRequest) (*api.AdminPrivilegeResponse, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	id, err := s.accounts.RevokeAdmin(ctx, current, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.AdminPrivilegeResponse{UpdatedUserID: id}, nil
}

func (s *GRPCServer) GetAvatarUploadURL(ctx context.Context, req *api.AvatarURLRequest) (*api.AvatarURLResponse, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	u, err := s.avatars.UploadURL(ctx, current, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.AvatarURLResponse{Key: u.Key, URL: u.URL, ExpiresAt: u.ExpiresAt}, nil
}

func (s *GRPCServer) GetAvatarDownloadURL(ctx context.Context, req *api.AvatarURLRequest) (*api.AvatarURLResponse, error) {
	current, err := currentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireUserID(req.UserID); err != nil {
		return nil, err
	}

	u, err := s.avatars.DownloadURL(ctx, current, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.AvatarURLResponse{Key: u.Key, URL: u.URL, ExpiresAt: u.ExpiresAt}, nil
}
