package entities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/dbx"
	"github.com/ourunion/unionhub/internal/server/models"
)

// PostgresRepository implements entity storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.EntityRow, error) {
	query := `SELECT id, data, updated_at FROM entity_sets WHERE id = $1`

	var row models.EntityRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.Data, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &row, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, id string, data json.RawMessage) (*models.EntityRow, error) {
	query := `
		INSERT INTO entity_sets (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
		RETURNING id, data, updated_at;
	`
	var row models.EntityRow
	err := r.db.QueryRowContext(ctx, query, id, data).Scan(&row.ID, &row.Data, &row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &row, nil
}
