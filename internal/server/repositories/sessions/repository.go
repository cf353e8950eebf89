// Package sessions provides session-token storage. The table holds at most
// one row per user; issuing a session replaces the previous row.
package sessions

import (
	"context"

	"github.com/Trevrosa/pcupback/internal/server/models"
)

// Repository is the session store. Lookups return common.ErrorNotFound
// when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Session, error)
	// Upsert inserts the session, replacing any existing row for the same
	// user in a single atomic statement (last writer wins).
	Upsert(ctx context.Context, session *models.Session) error
}
