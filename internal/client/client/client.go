package client

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/api"
)

// Session is the credential pair held after a successful sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	Account      *api.Account
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Signup(ctx context.Context, username, email, password string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Resume(ctx context.Context, refreshToken string) (*Session, error)
	FederatedLoginURL(ctx context.Context, state string) (string, error)
	FederatedLogin(ctx context.Context, code string) (*Session, error)
	Logout(ctx context.Context) (int64, error)
	Me(ctx context.Context) (*api.Account, error)
	ChangePassword(ctx context.Context, current, next string) (int64, error)
	Deactivate(ctx context.Context) error

	SendMessage(ctx context.Context, threadID, message string) (*api.SendMessageResponse, error)
	Threads(ctx context.Context, limit int) (*api.ListConversationsResponse, error)
	Thread(ctx context.Context, threadID string) (*api.GetConversationResponse, error)
	DeleteThread(ctx context.Context, threadID string) error
}
