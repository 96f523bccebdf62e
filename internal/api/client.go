package api

import (
	"context"

	"google.golang.org/grpc"
)

// PortalServiceClient is the client side of PortalService.
type PortalServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*Account, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error)
	UpdateAccount(ctx context.Context, in *UpdateAccountRequest, opts ...grpc.CallOption) (*UpdateAccountResponse, error)
	DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error)
	GrantAdmin(ctx context.Context, in *AdminPrivilegeRequest, opts ...grpc.CallOption) (*AdminPrivilegeResponse, error)
	RevokeAdmin(ctx context.Context, in *AdminPrivilegeRequest, opts ...grpc.CallOption) (*AdminPrivilegeResponse, error)
	GetAvatarUploadURL(ctx context.Context, in *AvatarURLRequest, opts ...grpc.CallOption) (*AvatarURLResponse, error)
	GetAvatarDownloadURL(ctx context.Context, in *AvatarURLRequest, opts ...grpc.CallOption) (*AvatarURLResponse, error)
}

type portalServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortalServiceClient returns a client that encodes every call with the
// JSON codec.
func NewPortalServiceClient(cc grpc.ClientConnInterface) PortalServiceClient {
	return &portalServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *portalServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *portalServiceClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodCreateAccount, in, opts)
}

func (c *portalServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *portalServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodGetAccount, in, opts)
}

func (c *portalServiceClient) UpdateAccount(ctx context.Context, in *UpdateAccountRequest, opts ...grpc.CallOption) (*UpdateAccountResponse, error) {
	return invoke[UpdateAccountResponse](ctx, c.cc, MethodUpdateAccount, in, opts)
}

func (c *portalServiceClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error) {
	return invoke[DeleteAccountResponse](ctx, c.cc, MethodDeleteAccount, in, opts)
}

func (c *portalServiceClient) GrantAdmin(ctx context.Context, in *AdminPrivilegeRequest, opts ...grpc.CallOption) (*AdminPrivilegeResponse, error) {
	return invoke[AdminPrivilegeResponse](ctx, c.cc, MethodGrantAdmin, in, opts)
}

func (c *portalServiceClient) RevokeAdmin(ctx context.Context, in *AdminPrivilegeRequest, opts ...grpc.CallOption) (*AdminPrivilegeResponse, error) {
	return invoke[AdminPrivilegeResponse](ctx, c.cc, MethodRevokeAdmin, in, opts)
}

func (c *portalServiceClient) GetAvatarUploadURL(ctx context.Context, in *AvatarURLRequest, opts ...grpc.CallOption) (*AvatarURLResponse, error) {
	return invoke[AvatarURLResponse](ctx, c.cc, MethodGetAvatarUploadURL, in, opts)
}

func (c *portalServiceClient) GetAvatarDownloadURL(ctx context.Context, in *AvatarURLRequest, opts ...grpc.CallOption) (*AvatarURLResponse, error) {
	return invoke[AvatarURLResponse](ctx, c.cc, MethodGetAvatarDownloadURL, in, opts)
}
