// Package services contains the server's business logic: the authentication
// and session state machine, usage sync reconciliation, and account removal.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Trevrosa/pcupback/internal/common"
	"github.com/Trevrosa/pcupback/internal/dbx"
	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/models"
	"github.com/Trevrosa/pcupback/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SessionTimeout is the default lifetime of a session token. Expiry is
// evaluated lazily when a session is read, never swept in the background.
const SessionTimeout = 24 * time.Hour

// timeNow is a seam for tests that need to control expiry arithmetic.
var timeNow = time.Now

// SessionService implements the per-user session state machine:
// absent -> active (issue), active -> expired (lazy, on read),
// expired/absent -> active (reissue), and forced reset.
type SessionService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	timeout time.Duration
	logger  logging.Logger
}

// NewSessionService constructs a SessionService. A timeout of 0 selects the
// default SessionTimeout.
func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, timeout time.Duration, logger logging.Logger) *SessionService {
	if timeout == 0 {
		timeout = SessionTimeout
	}
	return &SessionService{
		db:      db,
		repos:   repos,
		timeout: timeout,
		logger:  logger.With("module", "sessions"),
	}
}

// Expired reports whether the session's last issue time is strictly more
// than the timeout ago. A session exactly at the boundary is still valid.
func (s *SessionService) Expired(session *models.Session) bool {
	return timeNow().Sub(session.LastSet) > s.timeout
}

// Issue generates a fresh session (random token, last_set = now) for userID
// and stores it, replacing any previous session row for that user. It runs
// against the given handle so registration can issue inside a transaction.
func (s *SessionService) Issue(ctx context.Context, db dbx.DBTX, userID int64) (*models.Session, error) {
	session := &models.Session{
		UserID:  userID,
		ID:      uuid.NewString(),
		LastSet: timeNow(),
	}

	if err := s.repos.Sessions(db).Upsert(ctx, session); err != nil {
		s.logger.Error(ctx, "failed to store session", "user_id", userID, "error", err)
		return nil, common.NewStoreError(common.OpInsert, err)
	}

	return session, nil
}

// ValidateOrRefresh returns the stored session unchanged when the lookup
// succeeded and the session has not expired; in every other case it issues
// a replacement. lookupErr carries the outcome of the caller's fetch.
func (s *SessionService) ValidateOrRefresh(ctx context.Context, db dbx.DBTX, stored *models.Session, lookupErr error, userID int64) (*models.Session, error) {
	if lookupErr != nil {
		s.logger.Warn(ctx, "no session, issuing one", "user_id", userID)
		return s.Issue(ctx, db, userID)
	}

	if s.Expired(stored) {
		s.logger.Info(ctx, "session timed out, issuing new one", "user_id", userID)
		return s.Issue(ctx, db, userID)
	}

	return stored, nil
}

// Reset resolves sessionID and always issues a replacement for its owner,
// regardless of expiry. The previous token stops resolving immediately.
// An unknown id yields common.ErrInvalidSession.
func (s *SessionService) Reset(ctx context.Context, sessionID string) (*models.Session, error) {
	stored, err := s.repos.Sessions(s.db).GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "session was invalid")
			return nil, common.ErrInvalidSession
		}
		return nil, common.NewStoreError(common.OpSelect, err)
	}

	return s.Issue(ctx, s.db, stored.UserID)
}

// IsValid reports whether a session with exactly this id exists and has not
// expired. Storage failures degrade to false.
func (s *SessionService) IsValid(ctx context.Context, sessionID string) bool {
	stored, err := s.repos.Sessions(s.db).GetByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "session lookup failed", "error", err)
		}
		return false
	}
	return stored.ID == sessionID && !s.Expired(stored)
}
