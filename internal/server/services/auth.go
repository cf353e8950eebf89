package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Trevrosa/pcupback/internal/common"
	"github.com/Trevrosa/pcupback/internal/dbx"
	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/models"
	"github.com/Trevrosa/pcupback/internal/server/repositories/repomanager"
)

// Password length bounds for registration, in bytes.
const (
	minPasswordLen = 8
	maxPasswordLen = 64
)

// Hasher hashes and verifies credentials. Implemented by password.Argon2.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify returns (false, nil) on a clean mismatch and an error wrapping
	// common.ErrHashParse when the stored hash is unreadable.
	Verify(encodedHash, password string) (bool, error)
}

// AuthService implements login-or-register: one operation that either
// verifies an existing account's password or creates the account.
type AuthService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	hasher   Hasher
	sessions *SessionService
	logger   logging.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, hasher Hasher, sessions *SessionService, logger logging.Logger) *AuthService {
	return &AuthService{
		db:       db,
		repos:    repos,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger.With("module", "auth"),
	}
}

// Authenticate trims username, then either logs the user in (verifying the
// stored hash and refreshing the session if expired) or registers a new
// account when the username is unknown. Returned errors are the sentinel
// values in common plus StoreError for storage faults.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.ErrEmptyUsername
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	switch {
	case err == nil:
		return s.login(ctx, user, password)
	case errors.Is(err, common.ErrorNotFound):
		s.logger.Info(ctx, "no existing user, creating new account", "username", username)
		return s.register(ctx, username, password)
	default:
		return nil, common.NewStoreError(common.OpSelect, err)
	}
}

func (s *AuthService) login(ctx context.Context, user *models.User, password string) (*models.Session, error) {
	s.logger.Info(ctx, "got auth request for existing user", "user_id", user.ID)

	matched, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		if errors.Is(err, common.ErrHashParse) {
			s.logger.Error(ctx, "failed to parse stored password hash", "user_id", user.ID, "error", err)
			return nil, err
		}
		s.logger.Error(ctx, "password verification fault", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !matched {
		s.logger.Info(ctx, "mismatched password", "user_id", user.ID)
		return nil, common.ErrWrongPassword
	}

	stored, lookupErr := s.repos.Sessions(s.db).GetByUserID(ctx, user.ID)
	return s.sessions.ValidateOrRefresh(ctx, s.db, stored, lookupErr, user.ID)
}

// register creates the user and their first session in one transaction, so
// a failure at any step leaves no user without a session and no session
// without a user. The unique constraints on users.id and users.username are
// the guard against concurrent registrations computing the same next id;
// MaxID+1 is just the fast path.
func (s *AuthService) register(ctx context.Context, username, password string) (*models.Session, error) {
	if len(password) < minPasswordLen {
		return nil, common.ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return nil, common.ErrPasswordTooLong
	}

	var session *models.Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repos.Users(tx)

		maxID, err := users.MaxID(ctx)
		if err != nil {
			return common.NewStoreError(common.OpSelect, err)
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}

		user := &models.User{ID: maxID + 1, Username: username, PasswordHash: hash}
		if err := users.Create(ctx, user); err != nil {
			return common.NewStoreError(common.OpInsert, err)
		}

		session, err = s.sessions.Issue(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "registration failed", "username", username, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "registered new user", "user_id", session.UserID)
	return session, nil
}
