// Package users provides account storage: one row per registered user,
// unique by id and by username.
package users

import (
	"context"

	"github.com/Trevrosa/pcupback/internal/server/models"
)

// Repository is the account store used by the auth and account services.
// Lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// MaxID returns the highest assigned user id, or 0 when no users exist.
	MaxID(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
	// Delete removes the user row; dependent session/usage/debug rows are
	// cleared by the schema's ON DELETE CASCADE constraints.
	Delete(ctx context.Context, id int64) error
}
