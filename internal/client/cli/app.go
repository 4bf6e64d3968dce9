package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/client/client"
	"github.com/dmitrijs2005/jobassistant/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionStore persists the refresh token between runs.
type sessionStore interface {
	Save(ctx context.Context, sess client.Session) error
	Load(ctx context.Context) (string, *api.Account, error)
	Clear(ctx context.Context) error
}

type App struct {
	config   *config.Config
	api      client.Client
	store    sessionStore
	closers  []func() error
	account  *api.Account
	threadID string
	reader   *bufio.Reader
	out      io.Writer

	modeMu sync.Mutex
	Mode   Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewAssistantClientService(c.ServerEndpointAddr)
	if err != nil {
		_ = repos.DB.Close()
		return nil, err
	}

	store := client.NewSessionStore(repos.Metadata)
	apiClient.OnRotate(func(sess client.Session) {
		if err := store.Save(context.Background(), sess); err != nil {
			log.Printf("saving refreshed session: %v", err)
		}
	})

	return &App{
		config:  c,
		api:     apiClient,
		store:   store,
		closers: []func() error{apiClient.Close, repos.DB.Close},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		for _, c := range a.closers {
			_ = c()
		}
	}()
	a.Root(ctx)
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) isLoggedIn() bool {
	return a.account != nil
}

// requestCtx bounds a single server call.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// remember makes sess the signed-in session and saves it.
func (a *App) remember(ctx context.Context, sess *client.Session) {
	a.account = sess.Account
	a.threadID = ""
	a.setMode(ModeOnline)
	if err := a.store.Save(ctx, *sess); err != nil {
		log.Printf("saving session: %v", err)
	}
}

// forget drops the local session.
func (a *App) forget(ctx context.Context) {
	a.account = nil
	a.threadID = ""
	if err := a.store.Clear(ctx); err != nil {
		log.Printf("clearing session: %v", err)
	}
}

// resume signs in with the refresh token saved by an earlier run. A server
// that is down keeps the saved token for the next attempt.
func (a *App) resume(ctx context.Context) {
	token, acc, err := a.store.Load(ctx)
	if err != nil {
		log.Printf("loading saved session: %v", err)
		return
	}
	if token == "" {
		return
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	sess, err := a.api.Resume(rctx, token)
	switch {
	case err == nil:
		if sess.Account == nil {
			sess.Account = acc
		}
		a.remember(ctx, sess)
		a.printf("Welcome back, %s\n", sess.Account.Username)
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		log.Printf("Server unavailable, saved session kept")
	default:
		a.forget(ctx)
		a.printf("Saved session is no longer valid, please log in\n")
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
