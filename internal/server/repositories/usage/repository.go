// Package usage provides append-only storage for per-user app-usage and
// debug rows. Rows are never updated or deleted individually; they only go
// away when the owning user is deleted.
package usage

import (
	"context"

	"github.com/Trevrosa/pcupback/internal/server/models"
)

// Repository is the usage store consumed by the sync service.
type Repository interface {
	ListApps(ctx context.Context, userID int64) ([]models.AppInfo, error)
	CreateApp(ctx context.Context, app *models.AppInfo) error
	ListDebug(ctx context.Context, userID int64) ([]models.DebugRecord, error)
	CreateDebug(ctx context.Context, record *models.DebugRecord) error
}
