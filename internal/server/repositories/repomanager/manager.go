// Package repomanager wires concrete repository implementations to the DB
// handles that use them. Services obtain repositories through the manager so
// the same code runs against *sql.DB and *sql.Tx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/vmelnikov/picshare/internal/dbx"
	"github.com/vmelnikov/picshare/internal/server/repositories/comments"
	"github.com/vmelnikov/picshare/internal/server/repositories/photos"
	"github.com/vmelnikov/picshare/internal/server/repositories/refreshtokens"
	"github.com/vmelnikov/picshare/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Photos(db dbx.DBTX) photos.Repository
	Comments(db dbx.DBTX) comments.Repository
}
