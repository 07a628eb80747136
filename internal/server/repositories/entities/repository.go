// Package entities stores the entity-set rows: one JSON document per set,
// whole-value replaced on every write.
package entities

import (
	"context"
	"encoding/json"

	"github.com/ourunion/unionhub/internal/server/models"
)

type Repository interface {
	// Get returns the row or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.EntityRow, error)
	// Upsert replaces the row's document and refreshes updated_at.
	// Calling it again with the same document is safe.
	Upsert(ctx context.Context, id string, data json.RawMessage) (*models.EntityRow, error)
}
