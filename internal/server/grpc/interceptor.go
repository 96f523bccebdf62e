package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accountKey ctxKey = "account"

// accessTokenInterceptor resolves the bearer token of every non-public
// method to an active account and stores it in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if api.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, v := range md.Get(common.AuthorizationHeaderName) {
			if t, ok := common.ParseBearer(v); ok {
				accessToken = t
				break
			}
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	account, err := s.auth.CurrentIdentity(ctx, accessToken)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(ctx, "identity lookup failed", "error", err.Error())
			return nil, status.Error(codes.Internal, "internal error")
		}
		return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
	}

	ctx = context.WithValue(ctx, accountKey, account)

	return handler(ctx, req)
}

// currentAccount returns the account stored by the interceptor.
func currentAccount(ctx context.Context) (*models.Account, error) {
	account, ok := ctx.Value(accountKey).(*models.Account)
	if !ok || account == nil {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return account, nil
}
