package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accountIDKey ctxKey = "accountID"

// publicMethods are callable without an access token.
var publicMethods = map[string]bool{
	api.FullMethod(api.MethodSignup):            true,
	api.FullMethod(api.MethodLogin):             true,
	api.FullMethod(api.MethodRefresh):           true,
	api.FullMethod(api.MethodFederatedLoginURL): true,
	api.FullMethod(api.MethodFederatedLogin):    true,
}

func isAssistantMethod(method string) bool {
	return strings.HasPrefix(method, "/"+api.ServiceName+"/")
}

func isProtected(method string) bool {
	return isAssistantMethod(method) && !publicMethods[method]
}

// bearerFromMetadata prefers "authorization: Bearer <token>" and falls back to
// the bare "access_token" key.
func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 && values[0] != "" {
		return values[0]
	}
	if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !isProtected(info.FullMethod) {
		return handler(ctx, req)
	}

	token := bearerFromMetadata(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	accountID, err := s.sessions.Authenticate(ctx, token)
	if err != nil {
		s.logger.Debug(ctx, "access token rejected", "method", info.FullMethod)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(context.WithValue(ctx, accountIDKey, accountID), req)
}

func accountIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(accountIDKey).(string)
	if !ok || id == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}
