package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobassistant/internal/common"
	"github.com/dmitrijs2005/jobassistant/internal/logging"
	"github.com/dmitrijs2005/jobassistant/internal/server/config"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// migratingManager records RunMigrations; repositories come from the
// embedded postgres manager.
type migratingManager struct {
	*repomanager.PostgresRepositoryManager
	err    error
	called bool
}

func (m *migratingManager) RunMigrations(context.Context, *sql.DB) error {
	m.called = true
	return m.err
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func newMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewApp_MigratesAndWires(t *testing.T) {
	rm := &migratingManager{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager()}

	app, err := newApp(context.Background(), testConfig(), logging.Nop(), newMockDB(t), rm)
	require.NoError(t, err)
	assert.True(t, rm.called)
	assert.NotNil(t, app.sessions)
	assert.NotNil(t, app.convs)
	assert.NotNil(t, app.profiles)

	_, err = app.fed.LoginURL("state")
	assert.ErrorIs(t, err, common.ErrNotConfigured, "no client id configured")
}

func TestNewApp_GoogleEnabled(t *testing.T) {
	c := testConfig()
	c.GoogleClientID = "client"
	rm := &migratingManager{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager()}

	app, err := newApp(context.Background(), c, logging.Nop(), newMockDB(t), rm)
	require.NoError(t, err)

	u, err := app.fed.LoginURL("state")
	require.NoError(t, err)
	assert.Contains(t, u, "client_id=client")
}

func TestNewApp_ArchiveEnabled(t *testing.T) {
	c := testConfig()
	c.ArchiveEnabled = true
	c.S3RootUser, c.S3RootPassword = "minio", "minio123"
	rm := &migratingManager{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager()}

	_, err := newApp(context.Background(), c, logging.Nop(), newMockDB(t), rm)
	require.NoError(t, err)
}

func TestNewApp_MigrationFailure(t *testing.T) {
	rm := &migratingManager{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager(), err: errors.New("no db")}

	_, err := newApp(context.Background(), testConfig(), logging.Nop(), newMockDB(t), rm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations error")
}

func TestNewApp_BadAlgorithm(t *testing.T) {
	c := testConfig()
	c.SigningAlgorithm = "RS256"
	rm := &migratingManager{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager()}

	_, err := newApp(context.Background(), c, logging.Nop(), newMockDB(t), rm)
	require.Error(t, err)
}
