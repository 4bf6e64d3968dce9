package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/client/client"
	"github.com/dmitrijs2005/jobassistant/internal/client/config"
)

type fakeClient struct {
	calls []string

	session   *client.Session
	loginErr  error
	signupErr error
	resumeErr error
	logoutErr error
	pingErr   error
	meErr     error
	changeErr error
	sendErr   error

	gotUser, gotPass, gotEmail string
	gotThread, gotMessage      string
	gotCode, gotState          string
	gotCurrent, gotNext        string

	sendResp *api.SendMessageResponse
	threads  *api.ListConversationsResponse
	thread   *api.GetConversationResponse
}

func (f *fakeClient) call(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) Ping(context.Context) error {
	f.call("ping")
	return f.pingErr
}
func (f *fakeClient) Signup(_ context.Context, u, e, p string) (*client.Session, error) {
	f.call("signup")
	f.gotUser, f.gotEmail, f.gotPass = u, e, p
	return f.session, f.signupErr
}
func (f *fakeClient) Login(_ context.Context, u, p string) (*client.Session, error) {
	f.call("login")
	f.gotUser, f.gotPass = u, p
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}
func (f *fakeClient) Resume(context.Context, string) (*client.Session, error) {
	f.call("resume")
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	return f.session, nil
}
func (f *fakeClient) FederatedLoginURL(_ context.Context, state string) (string, error) {
	f.call("federated-url")
	f.gotState = state
	return "https://accounts.example.com/auth?state=" + state, nil
}
func (f *fakeClient) FederatedLogin(_ context.Context, code string) (*client.Session, error) {
	f.call("federated-login")
	f.gotCode = code
	return f.session, nil
}
func (f *fakeClient) Logout(context.Context) (int64, error) {
	f.call("logout")
	return 3, f.logoutErr
}
func (f *fakeClient) Me(context.Context) (*api.Account, error) {
	f.call("me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &api.Account{ID: "u1", Username: "alice", Email: "alice@example.com", AuthProvider: "local"}, nil
}
func (f *fakeClient) ChangePassword(_ context.Context, current, next string) (int64, error) {
	f.call("passwd")
	f.gotCurrent, f.gotNext = current, next
	return 2, f.changeErr
}
func (f *fakeClient) Deactivate(context.Context) error {
	f.call("deactivate")
	return nil
}
func (f *fakeClient) SendMessage(_ context.Context, threadID, message string) (*api.SendMessageResponse, error) {
	f.call("send")
	f.gotThread, f.gotMessage = threadID, message
	return f.sendResp, f.sendErr
}
func (f *fakeClient) Threads(context.Context, int) (*api.ListConversationsResponse, error) {
	f.call("threads")
	return f.threads, nil
}
func (f *fakeClient) Thread(_ context.Context, id string) (*api.GetConversationResponse, error) {
	f.call("thread")
	if f.thread == nil || f.thread.Thread.ID != id {
		return nil, client.ErrNotFound
	}
	return f.thread, nil
}
func (f *fakeClient) DeleteThread(_ context.Context, id string) error {
	f.call("rm " + id)
	return nil
}

type fakeStore struct {
	token   string
	account *api.Account
	saved   []client.Session
	cleared int
}

func (s *fakeStore) Save(_ context.Context, sess client.Session) error {
	s.saved = append(s.saved, sess)
	s.token, s.account = sess.RefreshToken, sess.Account
	return nil
}
func (s *fakeStore) Load(context.Context) (string, *api.Account, error) {
	return s.token, s.account, nil
}
func (s *fakeStore) Clear(context.Context) error {
	s.cleared++
	s.token, s.account = "", nil
	return nil
}

var alice = &client.Session{
	AccessToken:  "A1",
	RefreshToken: "R1",
	Account:      &api.Account{ID: "u1", Username: "alice", AuthProvider: "local"},
}

// newTestApp returns an App reading input and writing to the returned buffer.
func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *fakeStore, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RequestTimeout = time.Second

	store := &fakeStore{}
	out := &bytes.Buffer{}
	return &App{
		config: cfg,
		api:    fc,
		store:  store,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, store, out
}

// stubInputs replaces the prompt helpers with canned answers.
func stubInputs(t *testing.T, lines []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
}
