package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.PortalServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerValue(token))

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = t
}

// accessTokenInterceptor attaches the current access token to outgoing calls.
// A call rejected as unauthenticated drops the stored token.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token := s.token()
	if token != "" && !api.PublicMethods[method] {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err != nil && token != "" && status.Code(err) == codes.Unauthenticated && !api.PublicMethods[method] {
		s.setToken("")
	}

	return err
}

func NewPortalClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewPortalServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// LoggedIn reports whether an access token is held.
func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Register(ctx context.Context, name, surname, email string, password []byte) (*api.Account, error) {

	req := &api.CreateAccountRequest{Name: name, Surname: surname, Email: email, Password: string(password)}

	resp, err := s.client.CreateAccount(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) error {

	req := &api.LoginRequest{Email: email, Password: string(password)}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setToken(resp.AccessToken)

	return nil
}

// Logout forgets the access token. Tokens are not revoked server side; they
// stay valid until expiry.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) GetAccount(ctx context.Context, userID string) (*api.Account, error) {
	resp, err := s.client.GetAccount(ctx, &api.GetAccountRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdateAccount(ctx context.Context, req *api.UpdateAccountRequest) (string, error) {
	resp, err := s.client.UpdateAccount(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UpdatedUserID, nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, userID string) (string, error) {
	resp, err := s.client.DeleteAccount(ctx, &api.DeleteAccountRequest{UserID: userID})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.DeletedUserID, nil
}

func (s *GRPCClient) GrantAdmin(ctx context.Context, userID string) (string, error) {
	resp, err := s.client.GrantAdmin(ctx, &api.AdminPrivilegeRequest{UserID: userID})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UpdatedUserID, nil
}

func (s *GRPCClient) RevokeAdmin(ctx context.Context, userID string) (string, error) {
	resp, err := s.client.RevokeAdmin(ctx, &api.AdminPrivilegeRequest{UserID: userID})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UpdatedUserID, nil
}

func (s *GRPCClient) AvatarUploadURL(ctx context.Context, userID string) (*api.AvatarURLResponse, error) {
	resp, err := s.client.GetAvatarUploadURL(ctx, &api.AvatarURLRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) AvatarDownloadURL(ctx context.Context, userID string) (*api.AvatarURLResponse, error) {
	resp, err := s.client.GetAvatarDownloadURL(ctx, &api.AvatarURLRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.ResourceExhausted:
		return ErrTooManyAttempts
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
