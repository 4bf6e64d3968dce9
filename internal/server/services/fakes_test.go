package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/conversations"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/entries"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/users"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// memStore is shared by every fake repository of one test. It ignores the
// DBTX it is handed; the sqlite handle only gives WithTx something to begin
// and commit.
type memStore struct {
	mu       sync.Mutex
	seq      int
	clock    time.Time
	accounts map[string]*models.Account
	tokens   map[string]*models.RefreshToken
	convs    map[string]*models.Conversation
	entries  []*models.Entry
	profiles map[string]*models.Profile

	// createErrs are returned, in order, by the next account Creates.
	createErrs []error
	// failRole makes entry Append fail for entries of that role.
	failRole models.Role
	// failList makes entry List fail.
	failList bool
	// txEntryRepos counts entry repositories bound to a transaction.
	txEntryRepos int
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		accounts: map[string]*models.Account{},
		tokens:   map[string]*models.RefreshToken{},
		convs:    map[string]*models.Conversation{},
		profiles: map[string]*models.Profile{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

// tick advances the store clock so updated_at orderings are strict.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) token(hash string) *models.RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[hash]; ok {
		c := *t
		return &c
	}
	return nil
}

func (s *memStore) liveTokens(accountID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.AccountID == accountID && !t.Revoked {
			n++
		}
	}
	return n
}

func (s *memStore) entryCount(conversationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.ConversationID == conversationID {
			n++
		}
	}
	return n
}

type fakeRepoManager struct{ store *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return &fakeUsers{m.store} }

func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &fakeTokens{m.store}
}

func (m *fakeRepoManager) Conversations(dbx.DBTX) conversations.Repository {
	return &fakeConversations{m.store}
}

func (m *fakeRepoManager) Entries(db dbx.DBTX) entries.Repository {
	if _, ok := db.(*sql.Tx); ok {
		m.store.mu.Lock()
		m.store.txEntryRepos++
		m.store.mu.Unlock()
	}
	return &fakeEntries{m.store}
}

func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository { return &fakeProfiles{m.store} }

type fakeUsers struct{ s *memStore }

func (r *fakeUsers) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.createErrs) > 0 {
		err := r.s.createErrs[0]
		r.s.createErrs = r.s.createErrs[1:]
		return nil, err
	}
	for _, o := range r.s.accounts {
		if o.Username == a.Username || strings.EqualFold(o.Email, a.Email) ||
			(a.ExternalSubject != "" && o.ExternalSubject == a.ExternalSubject) {
			return nil, common.ErrConflict
		}
	}
	c := *a
	if c.ID == "" {
		c.ID = r.s.nextID("acc")
	}
	c.Active = true
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.accounts[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeUsers) find(match func(*models.Account) bool) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if match(a) {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUsers) GetByID(_ context.Context, id string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.ID == id })
}

func (r *fakeUsers) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Username == username })
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *fakeUsers) GetByExternalSubject(_ context.Context, subject string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.ExternalSubject != "" && a.ExternalSubject == subject })
}

func (r *fakeUsers) Exists(_ context.Context, username, email string) (bool, error) {
	_, err := r.find(func(a *models.Account) bool {
		return a.Username == username || strings.EqualFold(a.Email, email)
	})
	return err == nil, nil
}

func (r *fakeUsers) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, err := r.find(func(a *models.Account) bool { return a.Username == username })
	return err == nil, nil
}

func (r *fakeUsers) update(id string, fn func(*models.Account)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(a)
	a.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakeUsers) LinkExternal(_ context.Context, id, subject string, providers models.ProviderSet) error {
	return r.update(id, func(a *models.Account) {
		a.ExternalSubject = subject
		a.Providers = providers
	})
}

func (r *fakeUsers) UpdatePassword(_ context.Context, id, digest string, providers models.ProviderSet) error {
	return r.update(id, func(a *models.Account) {
		a.PasswordDigest = digest
		a.Providers = providers
	})
}

func (r *fakeUsers) Deactivate(_ context.Context, id string) error {
	return r.update(id, func(a *models.Account) { a.Active = false })
}

type fakeTokens struct{ s *memStore }

func (r *fakeTokens) Create(_ context.Context, t *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tokens[t.TokenHash]; ok {
		return common.ErrConflict
	}
	if t.ID == "" {
		t.ID = r.s.nextID("rt")
	}
	t.CreatedAt = r.s.tick()
	c := *t
	r.s.tokens[t.TokenHash] = &c
	return nil
}

func (r *fakeTokens) Consume(_ context.Context, hash string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[hash]
	if !ok || t.Revoked {
		return nil, common.ErrNotFound
	}
	before := *t
	t.Revoked = true
	return &before, nil
}

func (r *fakeTokens) RevokeAll(_ context.Context, accountID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, t := range r.s.tokens {
		if t.AccountID == accountID && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}

type fakeConversations struct{ s *memStore }

func (r *fakeConversations) Create(_ context.Context, c *models.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = r.s.nextID("conv")
	}
	if c.Title == "" {
		c.Title = models.DefaultConversationTitle
	}
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.convs[c.ID] = &cp
	return nil
}

func (r *fakeConversations) owned(id, owner string) (*models.Conversation, bool) {
	c, ok := r.s.convs[id]
	if !ok || c.OwnerID != owner {
		return nil, false
	}
	return c, true
}

func (r *fakeConversations) Get(_ context.Context, id, owner string) (*models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.owned(id, owner)
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConversations) sorted(owner string) []*models.Conversation {
	var out []*models.Conversation
	for _, c := range r.s.convs {
		if c.OwnerID == owner {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeConversations) List(_ context.Context, owner string, limit int) ([]*models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	asc := r.sorted(owner)
	var out []*models.Conversation
	for i := len(asc) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, asc[i])
	}
	return out, nil
}

func (r *fakeConversations) Rename(_ context.Context, id, owner, title string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.owned(id, owner)
	if !ok {
		return common.ErrNotFound
	}
	c.Title = title
	c.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakeConversations) Touch(_ context.Context, id, owner string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.owned(id, owner)
	if !ok {
		return common.ErrNotFound
	}
	c.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakeConversations) Delete(_ context.Context, id, owner string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.owned(id, owner); !ok {
		return common.ErrNotFound
	}
	delete(r.s.convs, id)
	kept := r.s.entries[:0]
	for _, e := range r.s.entries {
		if e.ConversationID != id {
			kept = append(kept, e)
		}
	}
	r.s.entries = kept
	return nil
}

func (r *fakeConversations) Oldest(_ context.Context, owner string) (*models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	asc := r.sorted(owner)
	if len(asc) == 0 {
		return nil, common.ErrNotFound
	}
	return asc[0], nil
}

func (r *fakeConversations) Usage(_ context.Context, owner string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, e := range r.s.entries {
		if c, ok := r.s.convs[e.ConversationID]; ok && c.OwnerID == owner {
			total += int64(len(e.Content) + len(e.Attachments))
		}
	}
	return total, nil
}

type fakeEntries struct{ s *memStore }

func (r *fakeEntries) Append(_ context.Context, e *models.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.convs[e.ConversationID]; !ok {
		return common.ErrNotFound
	}
	if r.s.failRole != "" && e.Role == r.s.failRole {
		return common.NewStoreError("append entry", errors.New("connection reset"))
	}
	if e.ID == "" {
		e.ID = r.s.nextID("msg")
	}
	e.CreatedAt = r.s.tick()
	cp := *e
	r.s.entries = append(r.s.entries, &cp)
	return nil
}

func (r *fakeEntries) List(_ context.Context, conversationID, owner string) ([]*models.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failList {
		return nil, common.NewStoreError("list entries", errors.New("connection reset"))
	}
	c, ok := r.s.convs[conversationID]
	if !ok || c.OwnerID != owner {
		return nil, nil
	}
	var out []*models.Entry
	for _, e := range r.s.entries {
		if e.ConversationID == conversationID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProfiles struct{ s *memStore }

func (r *fakeProfiles) Get(_ context.Context, accountID string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[accountID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfiles) Put(_ context.Context, p *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.UpdatedAt = r.s.tick()
	cp := *p
	r.s.profiles[p.AccountID] = &cp
	return nil
}

// newTxDB opens an empty in-memory sqlite database for WithTx.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// stubCodec issues "access:<subject>" tokens.
type stubCodec struct{}

func (stubCodec) IssueAccess(subject string) (string, error) { return "access:" + subject, nil }

func (stubCodec) DecodeAccess(token string) (string, error) {
	subject, ok := strings.CutPrefix(token, "access:")
	if !ok || subject == "" {
		return "", common.ErrUnauthenticated
	}
	return subject, nil
}
