// Package repomanager wires repository constructors to a database handle and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Trevrosa/pcupback/internal/dbx"
	"github.com/Trevrosa/pcupback/internal/server/repositories/sessions"
	"github.com/Trevrosa/pcupback/internal/server/repositories/usage"
	"github.com/Trevrosa/pcupback/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same store code against the shared pool or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Usage(db dbx.DBTX) usage.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
