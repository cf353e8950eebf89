package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Trevrosa/pcupback/internal/common"
	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/repositories/repomanager"
)

// AccountService removes accounts. Deleting the user row cascades to the
// session, app-usage and debug rows through the schema's FK constraints.
type AccountService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *AccountService {
	return &AccountService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "account"),
	}
}

// Delete resolves sessionID to its owning user and removes the account.
// An unknown session yields common.ErrInvalidSession.
func (s *AccountService) Delete(ctx context.Context, sessionID string) error {
	session, err := s.repos.Sessions(s.db).GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "session was invalid")
			return common.ErrInvalidSession
		}
		return common.NewStoreError(common.OpSelect, err)
	}

	if err := s.repos.Users(s.db).Delete(ctx, session.UserID); err != nil {
		s.logger.Error(ctx, "failed to delete user", "user_id", session.UserID, "error", err)
		return common.NewStoreError(common.OpDelete, err)
	}

	s.logger.Info(ctx, "deleted user", "user_id", session.UserID)
	return nil
}
