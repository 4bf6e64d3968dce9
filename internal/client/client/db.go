package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/jobassistant/internal/client/migrations"
	"github.com/dmitrijs2005/jobassistant/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobassistant/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata metadata.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite file at path, creating its directory,
// and migrates it.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repositories{Metadata: metadata.NewSQLiteRepository(db), DB: db}, nil
}
