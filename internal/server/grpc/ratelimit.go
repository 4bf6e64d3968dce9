package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/server/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RateLimitPolicy gives every Assistant method perMinute requests per client
// and minute, with tighter budgets for signup, login and chat.
func RateLimitPolicy(perMinute int) ratelimit.Policy {
	return ratelimit.Policy{
		Default: perMinute,
		Methods: map[string]int{
			api.FullMethod(api.MethodSignup):      5,
			api.FullMethod(api.MethodLogin):       10,
			api.FullMethod(api.MethodSendMessage): 20,
		},
	}
}

// clientKey is the caller's IP, or the whole peer address when it has no
// port.
func clientKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter == nil || !isAssistantMethod(info.FullMethod) {
		return handler(ctx, req)
	}

	client := clientKey(ctx)
	if !s.limiter.Allow(info.FullMethod+"|"+client, s.limits.Budget(info.FullMethod)) {
		s.logger.Warn(ctx, "rate limit exceeded", "method", info.FullMethod, "client", client)
		return nil, status.Error(codes.ResourceExhausted, "too many requests, try again later")
	}
	return handler(ctx, req)
}
