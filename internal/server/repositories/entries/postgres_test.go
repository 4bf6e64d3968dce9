package entries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestAppend_WithAttachments(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+chat_messages\s+\(id,\s*thread_id,\s*role,\s*content,\s*intent,\s*attachments\)`).
		WithArgs(sqlmock.AnyArg(), "c1", "assistant", "here you go", "resume", `[{"type":"pdf"}]`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	e := &models.Entry{
		ConversationID: "c1",
		Role:           models.RoleAssistant,
		Content:        "here you go",
		Intent:         "resume",
		Attachments:    json.RawMessage(`[{"type":"pdf"}]`),
	}
	require.NoError(t, repo.Append(context.Background(), e))
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, now, e.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_NullableColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+chat_messages`).
		WithArgs(sqlmock.AnyArg(), "c1", "user", "hi", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	require.NoError(t, repo.Append(context.Background(), &models.Entry{ConversationID: "c1", Role: models.RoleUser, Content: "hi"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+chat_messages`).WillReturnError(errors.New("fk violation"))

	err := repo.Append(context.Background(), &models.Entry{ConversationID: "gone", Role: models.RoleUser})
	assert.ErrorIs(t, err, common.ErrStore)
}

func TestList_JoinsOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)JOIN\s+chat_threads\s+t\s+ON\s+m\.thread_id\s*=\s*t\.id\s+WHERE\s+m\.thread_id\s*=\s*\$1\s+AND\s+t\.user_id\s*=\s*\$2\s+ORDER\s+BY\s+m\.created_at\s+ASC`).
		WithArgs("c1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "thread_id", "role", "content", "intent", "attachments", "created_at"}).
			AddRow("m1", "c1", "user", "hello", nil, nil, now).
			AddRow("m2", "c1", "assistant", "hi!", "general", []byte(`[]`), now.Add(time.Second)))

	got, err := repo.List(context.Background(), "c1", "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RoleUser, got[0].Role)
	assert.Empty(t, got[0].Intent)
	assert.Nil(t, got[0].Attachments)
	assert.Equal(t, "general", got[1].Intent)
	assert.JSONEq(t, `[]`, string(got[1].Attachments))
}

func TestList_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+chat_messages`).WillReturnError(errors.New("down"))

	_, err := repo.List(context.Background(), "c1", "alice")
	assert.ErrorIs(t, err, common.ErrStore)
}
