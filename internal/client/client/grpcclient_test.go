package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeServer accepts the token "T1" and records the authorization header of
// every protected call.
type fakeServer struct {
	api.PortalServiceServer

	loginErr  error
	lastAuth  []string
	deleteErr error
}

func (f *fakeServer) auth(ctx context.Context) error {
	md, _ := metadata.FromIncomingContext(ctx)
	f.lastAuth = md.Get(common.AuthorizationHeaderName)
	if len(f.lastAuth) != 1 || f.lastAuth[0] != "Bearer T1" {
		return status.Error(codes.Unauthenticated, "could not validate credentials")
	}
	return nil
}

func (f *fakeServer) Ping(context.Context, *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (f *fakeServer) CreateAccount(_ context.Context, in *api.CreateAccountRequest) (*api.Account, error) {
	if in.Email == "taken@example.com" {
		return nil, status.Error(codes.AlreadyExists, "conflict: email already registered")
	}
	return &api.Account{UserID: "u1", Name: in.Name, Surname: in.Surname, Email: in.Email, IsActive: true}, nil
}

func (f *fakeServer) Login(_ context.Context, in *api.LoginRequest) (*api.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if in.Password != "password123" {
		return nil, status.Error(codes.Unauthenticated, "incorrect username or password")
	}
	return &api.LoginResponse{AccessToken: "T1", TokenType: "bearer"}, nil
}

func (f *fakeServer) GetAccount(ctx context.Context, in *api.GetAccountRequest) (*api.Account, error) {
	if err := f.auth(ctx); err != nil {
		return nil, err
	}
	if in.UserID == "missing" {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	return &api.Account{UserID: in.UserID}, nil
}

func (f *fakeServer) DeleteAccount(ctx context.Context, in *api.DeleteAccountRequest) (*api.DeleteAccountResponse, error) {
	if err := f.auth(ctx); err != nil {
		return nil, err
	}
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &api.DeleteAccountResponse{DeletedUserID: in.UserID}, nil
}

func (f *fakeServer) GrantAdmin(ctx context.Context, in *api.AdminPrivilegeRequest) (*api.AdminPrivilegeResponse, error) {
	if err := f.auth(ctx); err != nil {
		return nil, err
	}
	return nil, status.Error(codes.PermissionDenied, "forbidden")
}

func (f *fakeServer) GetAvatarUploadURL(ctx context.Context, in *api.AvatarURLRequest) (*api.AvatarURLResponse, error) {
	if err := f.auth(ctx); err != nil {
		return nil, err
	}
	return &api.AvatarURLResponse{Key: "avatars/" + in.UserID, URL: "http://s3/put"}, nil
}

func newTestClient(t *testing.T, srv *fakeServer) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	api.RegisterPortalServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c := &GRPCClient{endpointURL: "passthrough:///bufnet"}
	require.NoError(t, c.InitGRPCClient(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPingAndRegister(t *testing.T) {
	c := newTestClient(t, &fakeServer{})

	require.NoError(t, c.Ping(context.Background()))

	acc, err := c.Register(context.Background(), "Anna", "Berzina", "anna@example.com", []byte("password123"))
	require.NoError(t, err)
	assert.Equal(t, "u1", acc.UserID)

	_, err = c.Register(context.Background(), "Anna", "Berzina", "taken@example.com", []byte("password123"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_AttachesTokenToProtectedCalls(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)

	_, err := c.GetAccount(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, srv.lastAuth)

	err = c.Login(context.Background(), "anna@example.com", []byte("wrong"))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.LoggedIn())

	require.NoError(t, c.Login(context.Background(), "anna@example.com", []byte("password123")))
	assert.True(t, c.LoggedIn())

	acc, err := c.GetAccount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", acc.UserID)
	assert.Equal(t, []string{"Bearer T1"}, srv.lastAuth)

	c.Logout()
	assert.False(t, c.LoggedIn())
}

func TestErrorMapping(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	require.NoError(t, c.Login(context.Background(), "anna@example.com", []byte("password123")))

	_, err := c.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GrantAdmin(context.Background(), "u2")
	assert.ErrorIs(t, err, ErrForbidden)

	srv.deleteErr = status.Error(codes.InvalidArgument, "user_id is required")
	_, err = c.DeleteAccount(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	srv.deleteErr = status.Error(codes.Internal, "internal error")
	_, err = c.DeleteAccount(context.Background(), "u1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))

	srv.loginErr = status.Error(codes.ResourceExhausted, "too many")
	assert.ErrorIs(t, c.Login(context.Background(), "anna@example.com", []byte("password123")), ErrTooManyAttempts)
}

func TestUnauthenticatedDropsToken(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	c.setToken("stale")

	_, err := c.GetAccount(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.LoggedIn())
}

func TestAvatarURLs(t *testing.T) {
	c := newTestClient(t, &fakeServer{})
	require.NoError(t, c.Login(context.Background(), "anna@example.com", []byte("password123")))

	u, err := c.AvatarUploadURL(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "avatars/u1", u.Key)
}
