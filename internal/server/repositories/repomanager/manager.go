package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobassistant/internal/dbx"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/conversations"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/entries"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/jobassistant/internal/server/repositories/users"
)

// RepositoryManager builds repositories over a DBTX, so services can bind
// them to either the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Conversations(db dbx.DBTX) conversations.Repository
	Entries(db dbx.DBTX) entries.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
