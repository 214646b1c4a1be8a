// Package repomanager provides the factory that binds entity repositories to
// a database handle (plain connection or transaction) and runs migrations.
package repomanager

import (
	"context"
	"database/sql"

	"thesisarchive/internal/dbx"
	"thesisarchive/internal/server/repositories/accounts"
	"thesisarchive/internal/server/repositories/sessions"
	"thesisarchive/internal/server/repositories/theses"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Theses(db dbx.DBTX) theses.Repository
}
