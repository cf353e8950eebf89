package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Trevrosa/pcupback/internal/common"
	"github.com/Trevrosa/pcupback/internal/dbx"
	"github.com/Trevrosa/pcupback/internal/server/models"
)

// PostgresRepository implements session storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query :=
		`SELECT user_id, id, last_set FROM sessions
		 WHERE id = $1
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&session.UserID, &session.ID, &session.LastSet)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) (*models.Session, error) {
	query :=
		`SELECT user_id, id, last_set FROM sessions
		 WHERE user_id = $1
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&session.UserID, &session.ID, &session.LastSet)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

// Upsert rotates the user's session in one statement. The unique constraint
// on user_id makes this a replace, so concurrent logins for the same user
// resolve to whichever write landed last.
func (r *PostgresRepository) Upsert(ctx context.Context, session *models.Session) error {
	query :=
		`INSERT INTO sessions (user_id, id, last_set)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id)
		 DO UPDATE SET id = EXCLUDED.id, last_set = EXCLUDED.last_set
		 `

	if _, err := r.db.ExecContext(ctx, query, session.UserID, session.ID, session.LastSet); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
