package usage

import (
	"context"
	"fmt"

	"github.com/Trevrosa/pcupback/internal/dbx"
	"github.com/Trevrosa/pcupback/internal/server/models"
)

// PostgresRepository implements usage storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListApps(ctx context.Context, userID int64) ([]models.AppInfo, error) {
	query :=
		`SELECT user_id, app_name, app_usage, app_limit FROM app_info
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select app usage: %w", err)
	}
	defer rows.Close()

	var result []models.AppInfo
	for rows.Next() {
		var item models.AppInfo
		if err := rows.Scan(&item.UserID, &item.Name, &item.Usage, &item.Limit); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateApp(ctx context.Context, app *models.AppInfo) error {
	query :=
		`INSERT INTO app_info (user_id, app_name, app_usage, app_limit)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, app.UserID, app.Name, app.Usage, app.Limit); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListDebug(ctx context.Context, userID int64) ([]models.DebugRecord, error) {
	query :=
		`SELECT user_id, stored FROM user_debug
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select debug records: %w", err)
	}
	defer rows.Close()

	var result []models.DebugRecord
	for rows.Next() {
		var item models.DebugRecord
		if err := rows.Scan(&item.UserID, &item.Stored); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateDebug(ctx context.Context, record *models.DebugRecord) error {
	query :=
		`INSERT INTO user_debug (user_id, stored)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, record.UserID, record.Stored); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
