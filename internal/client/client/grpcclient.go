package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods never carry an access token and are never retried.
var publicMethods = map[string]bool{
	api.FullMethod(api.MethodSignup):            true,
	api.FullMethod(api.MethodLogin):             true,
	api.FullMethod(api.MethodRefresh):           true,
	api.FullMethod(api.MethodFederatedLoginURL): true,
	api.FullMethod(api.MethodFederatedLogin):    true,
}

type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	conn        *grpc.ClientConn
	client      *api.AssistantClient
	health      healthpb.HealthClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRotate     func(Session)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the bearer token to protected calls. When
// the server answers Unauthenticated it rotates the refresh token once and
// replays the call with the new access token.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if publicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	if access == "" && refresh == "" {
		return ErrNotLoggedIn
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated || refresh == "" {
		return err
	}

	access, err = s.rotate(ctx, access)
	if err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

// rotate exchanges the refresh token for a new pair unless another call has
// already done so since stale was issued.
func (s *GRPCClient) rotate(ctx context.Context, stale string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != stale {
		return s.accessToken, nil
	}

	resp, err := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: s.refreshToken})
	if err != nil {
		s.accessToken, s.refreshToken = "", ""
		return "", err
	}
	sess := s.setLocked(resp)
	if s.onRotate != nil {
		s.onRotate(*sess)
	}
	return s.accessToken, nil
}

func NewAssistantClientService(endpointURL string, dialOpts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, dialOpts: dialOpts}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAssistantClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

// OnRotate registers fn to be called with the session issued by a transparent
// refresh. Explicit sign-ins return their session to the caller instead.
func (s *GRPCClient) OnRotate(fn func(Session)) {
	s.mu.Lock()
	s.onRotate = fn
	s.mu.Unlock()
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setLocked(resp *api.SessionResponse) *Session {
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	return &Session{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken, Account: resp.User}
}

func (s *GRPCClient) set(resp *api.SessionResponse) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(resp)
}

func (s *GRPCClient) clear() {
	s.mu.Lock()
	s.accessToken, s.refreshToken = "", ""
	s.mu.Unlock()
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Ping reports whether the server answers its health check.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Signup(ctx context.Context, username, email, password string) (*Session, error) {
	resp, err := s.client.Signup(ctx, &api.SignupRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return s.set(resp), nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return s.set(resp), nil
}

// Resume restores a session from a refresh token saved by an earlier run.
func (s *GRPCClient) Resume(ctx context.Context, refreshToken string) (*Session, error) {
	resp, err := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, mapError(err)
	}
	return s.set(resp), nil
}

func (s *GRPCClient) FederatedLoginURL(ctx context.Context, state string) (string, error) {
	resp, err := s.client.FederatedLoginURL(ctx, &api.FederatedLoginURLRequest{State: state})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}

func (s *GRPCClient) FederatedLogin(ctx context.Context, code string) (*Session, error) {
	resp, err := s.client.FederatedLogin(ctx, &api.FederatedLoginRequest{Code: code})
	if err != nil {
		return nil, mapError(err)
	}
	return s.set(resp), nil
}

// Logout revokes every session of the account and forgets the local tokens,
// even when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) (int64, error) {
	defer s.clear()
	resp, err := s.client.Logout(ctx, &api.Empty{})
	if err != nil {
		return 0, mapError(err)
	}
	return resp.Revoked, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*api.Account, error) {
	acc, err := s.client.Me(ctx, &api.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return acc, nil
}

// ChangePassword revokes all sessions on success, so the local tokens are
// dropped too.
func (s *GRPCClient) ChangePassword(ctx context.Context, current, next string) (int64, error) {
	resp, err := s.client.ChangePassword(ctx, &api.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
	if err != nil {
		return 0, mapError(err)
	}
	s.clear()
	return resp.Revoked, nil
}

// Deactivate disables the account and drops the local tokens.
func (s *GRPCClient) Deactivate(ctx context.Context) error {
	if _, err := s.client.Deactivate(ctx, &api.Empty{}); err != nil {
		return mapError(err)
	}
	s.clear()
	return nil
}

func (s *GRPCClient) SendMessage(ctx context.Context, threadID, message string) (*api.SendMessageResponse, error) {
	resp, err := s.client.SendMessage(ctx, &api.SendMessageRequest{ThreadID: threadID, Message: message})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Threads(ctx context.Context, limit int) (*api.ListConversationsResponse, error) {
	resp, err := s.client.ListConversations(ctx, &api.ListConversationsRequest{Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Thread(ctx context.Context, threadID string) (*api.GetConversationResponse, error) {
	resp, err := s.client.GetConversation(ctx, &api.ThreadRequest{ThreadID: threadID})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DeleteThread(ctx context.Context, threadID string) error {
	if _, err := s.client.DeleteConversation(ctx, &api.ThreadRequest{ThreadID: threadID}); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrDeactivated
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.FailedPrecondition:
		return ErrWrongMethod
	case codes.Unimplemented:
		return ErrNotSupported
	}
	return err
}
