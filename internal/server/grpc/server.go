// Package grpc exposes the portal services over gRPC using the JSON codec
// declared in internal/api.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/logging"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/dmitrijs2005/gophportal/internal/server/services"
	"google.golang.org/grpc"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.Token, error)
	CurrentIdentity(ctx context.Context, token string) (*models.Account, error)
}

type AccountService interface {
	Create(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	Get(ctx context.Context, current *models.Account, id string) (*models.Account, error)
	Update(ctx context.Context, current *models.Account, id string, in services.UpdateAccountInput) (string, error)
	Delete(ctx context.Context, current *models.Account, id string) (string, error)
	GrantAdmin(ctx context.Context, current *models.Account, id string) (string, error)
	RevokeAdmin(ctx context.Context, current *models.Account, id string) (string, error)
}

type AvatarService interface {
	UploadURL(ctx context.Context, current *models.Account, id string) (*services.PresignedURL, error)
	DownloadURL(ctx context.Context, current *models.Account, id string) (*services.PresignedURL, error)
}

type GRPCServer struct {
	address  string
	auth     AuthService
	accounts AccountService
	avatars  AvatarService
	logger   logging.Logger
}

var _ api.PortalServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, as AuthService, acs AccountService, avs AvatarService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		auth:     as,
		accounts: acs,
		avatars:  avs,
	}
}

// newServer creates the gRPC server with the service and the access token
// interceptor registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	api.RegisterPortalServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
