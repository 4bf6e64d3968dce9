package grpc

import (
	"context"
	"encoding/json"
	"net"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/ratelimit"
	"github.com/dmitrijs2005/jobassistant/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type sessionService interface {
	Signup(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Refresh(ctx context.Context, raw string) (*services.Session, error)
	Logout(ctx context.Context, accountID string) (int64, error)
	Authenticate(ctx context.Context, bearer string) (string, error)
	Me(ctx context.Context, accountID string) (*models.PublicAccount, error)
	ChangePassword(ctx context.Context, accountID, current, next string) (int64, error)
	Deactivate(ctx context.Context, accountID string) error
}

type federatedService interface {
	LoginURL(state string) (string, error)
	Login(ctx context.Context, code, redirectURI string) (*services.Session, error)
}

type conversationService interface {
	Create(ctx context.Context, accountID, title string) (*models.Conversation, error)
	List(ctx context.Context, accountID string, limit int) (*services.ConversationList, error)
	Get(ctx context.Context, accountID, conversationID string) (*services.ConversationDetail, error)
	Rename(ctx context.Context, accountID, conversationID, title string) error
	Delete(ctx context.Context, accountID, conversationID string) error
	AppendTurn(ctx context.Context, accountID, conversationID, message string, turnContext json.RawMessage) (*services.TurnResult, error)
}

type profileService interface {
	Get(ctx context.Context, accountID string) (*models.Profile, error)
	Put(ctx context.Context, accountID string, data json.RawMessage) (*models.Profile, error)
}

type GRPCServer struct {
	api.UnimplementedAssistantServer
	address       string
	sessions      sessionService
	federated     federatedService
	conversations conversationService
	profiles      profileService
	limiter       *ratelimit.Limiter
	limits        ratelimit.Policy
	logger        logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, ss sessionService, fs federatedService, cs conversationService, ps profileService) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		sessions:      ss,
		federated:     fs,
		conversations: cs,
		profiles:      ps,
	}
}

// WithRateLimit makes every Assistant call spend from the caller's bucket
// before authentication runs.
func (s *GRPCServer) WithRateLimit(l *ratelimit.Limiter, p ratelimit.Policy) *GRPCServer {
	s.limiter = l
	s.limits = p
	return s
}

// register attaches the assistant and health services to srv.
func (s *GRPCServer) register(srv *grpc.Server) {
	api.RegisterAssistantServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.rateLimitInterceptor, s.accessTokenInterceptor))
	s.register(srv)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
