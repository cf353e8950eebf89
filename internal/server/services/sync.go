package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Trevrosa/pcupback/internal/common"
	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/models"
	"github.com/Trevrosa/pcupback/internal/server/repositories/repomanager"
)

// SyncResult is the canonical post-merge state plus the count of client
// records that could not be stored.
type SyncResult struct {
	Data   models.UsageSnapshot
	Failed int
}

// SyncService merges a client's usage snapshot into stored state with
// set-union semantics: stored records are never removed, and a client
// record is inserted only when no stored record matches its identity.
// App records match by (name, limit) — usage is deliberately excluded,
// so a re-sync with an updated usage value for a known pair is dropped
// as a duplicate.
type SyncService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

// NewSyncService constructs a SyncService.
func NewSyncService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *SyncService {
	return &SyncService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "sync"),
	}
}

// Sync resolves the session to its owner, merges the snapshot (when
// non-nil) into storage, and returns the complete stored dataset re-read
// after the merge. Per-record insert failures are counted, not fatal.
// The session merely has to exist; sync does not check expiry.
func (s *SyncService) Sync(ctx context.Context, sessionID string, snapshot *models.UsageSnapshot) (*SyncResult, error) {
	session, err := s.repos.Sessions(s.db).GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidSession
		}
		return nil, common.NewStoreError(common.OpSelect, err)
	}
	userID := session.UserID

	repo := s.repos.Usage(s.db)

	storedApps, err := repo.ListApps(ctx, userID)
	if err != nil {
		return nil, common.NewStoreError(common.OpSelect, err)
	}
	storedDebug, err := repo.ListDebug(ctx, userID)
	if err != nil {
		return nil, common.NewStoreError(common.OpSelect, err)
	}

	var failed int
	if snapshot != nil {
		for _, app := range snapshot.AppUsage {
			if hasAppMatch(storedApps, app.Name, app.Limit) {
				continue
			}
			app.UserID = userID
			if err := repo.CreateApp(ctx, &app); err != nil {
				s.logger.Warn(ctx, "failed to store app record", "user_id", userID, "app", app.Name, "error", err)
				failed++
				continue
			}
			storedApps = append(storedApps, app)
		}

		for _, record := range snapshot.Debug {
			if hasDebugMatch(storedDebug, record.Stored) {
				continue
			}
			record.UserID = userID
			if err := repo.CreateDebug(ctx, &record); err != nil {
				s.logger.Warn(ctx, "failed to store debug record", "user_id", userID, "error", err)
				failed++
				continue
			}
			storedDebug = append(storedDebug, record)
		}
	}

	// re-read: the stored set is the canonical merge result
	mergedApps, err := repo.ListApps(ctx, userID)
	if err != nil {
		return nil, common.NewStoreError(common.OpSelect, err)
	}
	mergedDebug, err := repo.ListDebug(ctx, userID)
	if err != nil {
		return nil, common.NewStoreError(common.OpSelect, err)
	}

	return &SyncResult{
		Data:   models.UsageSnapshot{AppUsage: mergedApps, Debug: mergedDebug},
		Failed: failed,
	}, nil
}

func hasAppMatch(stored []models.AppInfo, name string, limit int64) bool {
	for _, app := range stored {
		if app.Name == name && app.Limit == limit {
			return true
		}
	}
	return false
}

func hasDebugMatch(stored []models.DebugRecord, value string) bool {
	for _, record := range stored {
		if record.Stored == value {
			return true
		}
	}
	return false
}
