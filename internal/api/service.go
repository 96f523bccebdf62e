package api

import (
	"context"

	"google.golang.org/grpc"
)

// PortalServiceServer is implemented by the gRPC transport.
type PortalServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	CreateAccount(context.Context, *CreateAccountRequest) (*Account, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*Account, error)
	UpdateAccount(context.Context, *UpdateAccountRequest) (*UpdateAccountResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*DeleteAccountResponse, error)
	GrantAdmin(context.Context, *AdminPrivilegeRequest) (*AdminPrivilegeResponse, error)
	RevokeAdmin(context.Context, *AdminPrivilegeRequest) (*AdminPrivilegeResponse, error)
	GetAvatarUploadURL(context.Context, *AvatarURLRequest) (*AvatarURLResponse, error)
	GetAvatarDownloadURL(context.Context, *AvatarURLRequest) (*AvatarURLResponse, error)
}

func RegisterPortalServiceServer(s grpc.ServiceRegistrar, srv PortalServiceServer) {
	s.RegisterService(&PortalServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler, running the server's
// interceptor chain when one is installed.
func unary[Req, Resp any](fullMethod string, call func(PortalServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PortalServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PortalServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var PortalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, PortalServiceServer.Ping)},
		{MethodName: "CreateAccount", Handler: unary(MethodCreateAccount, PortalServiceServer.CreateAccount)},
		{MethodName: "Login", Handler: unary(MethodLogin, PortalServiceServer.Login)},
		{MethodName: "GetAccount", Handler: unary(MethodGetAccount, PortalServiceServer.GetAccount)},
		{MethodName: "UpdateAccount", Handler: unary(MethodUpdateAccount, PortalServiceServer.UpdateAccount)},
		{MethodName: "DeleteAccount", Handler: unary(MethodDeleteAccount, PortalServiceServer.DeleteAccount)},
		{MethodName: "GrantAdmin", Handler: unary(MethodGrantAdmin, PortalServiceServer.GrantAdmin)},
		{MethodName: "RevokeAdmin", Handler: unary(MethodRevokeAdmin, PortalServiceServer.RevokeAdmin)},
		{MethodName: "GetAvatarUploadURL", Handler: unary(MethodGetAvatarUploadURL, PortalServiceServer.GetAvatarUploadURL)},
		{MethodName: "GetAvatarDownloadURL", Handler: unary(MethodGetAvatarDownloadURL, PortalServiceServer.GetAvatarDownloadURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophportal/portal.json",
}
