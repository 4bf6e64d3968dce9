// Package server initializes and runs the job assistant server: it opens the
// database, applies migrations, builds the services and serves gRPC until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/archive"
	"github.com/dmitrijs2005/jobassistant/internal/server/auth"
	"github.com/dmitrijs2005/jobassistant/internal/server/config"
	"github.com/dmitrijs2005/jobassistant/internal/server/oauth"
	"github.com/dmitrijs2005/jobassistant/internal/server/ratelimit"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobassistant/internal/server/services"

	gs "github.com/dmitrijs2005/jobassistant/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	fed      *services.FederatedService
	convs    *services.ConversationService
	profiles *services.ProfileService
}

// NewApp opens the database, migrates it and builds the services. Logs go to
// out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(out, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	codec, err := auth.NewCodec([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("token codec error: %w", err)
	}

	var archiver services.Archiver
	if c.ArchiveEnabled {
		a, err := archive.NewS3Archiver(ctx, archive.Options{
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		archiver = a
	}

	var provider services.IdentityProvider
	if c.GoogleEnabled() {
		provider = oauth.NewGoogle(oauth.Config{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RedirectURI:  c.GoogleRedirectURI,
		})
	}

	sessions := services.NewSessionService(db, rm, codec, c.RefreshTokenTTL(), logger)
	linker := services.NewIdentityLinker(db, rm, logger)
	quota := services.NewQuotaService(db, rm, archiver, logger)
	profiles := services.NewProfileService(db, rm, c.ProfileMaxBytes, logger)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		sessions: sessions,
		fed:      services.NewFederatedService(provider, linker, sessions, logger),
		convs:    services.NewConversationService(db, rm, quota, profiles, nil, c.StorageQuotaBytes, logger),
		profiles: profiles,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.sessions, app.fed, app.convs, app.profiles)
	if app.config.RateLimitEnabled {
		s.WithRateLimit(ratelimit.NewLimiter(), gs.RateLimitPolicy(app.config.RateLimitPerMinute))
	}
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"grpc_addr", app.config.EndpointAddrGRPC,
		"federated_login", app.config.GoogleEnabled(),
		"archive", app.config.ArchiveEnabled,
		"rate_limit", app.config.RateLimitEnabled)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
