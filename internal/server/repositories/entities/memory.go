package entities

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/server/models"
)

// MemoryRepository is the in-memory variant used by tests and by the
// server's -memory mode.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]models.EntityRow
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]models.EntityRow)}
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.EntityRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := row
	out.Data = append(json.RawMessage(nil), row.Data...)
	return &out, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, id string, data json.RawMessage) (*models.EntityRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := models.EntityRow{
		ID:        id,
		Data:      append(json.RawMessage(nil), data...),
		UpdatedAt: time.Now(),
	}
	r.rows[id] = row

	out := row
	out.Data = append(json.RawMessage(nil), row.Data...)
	return &out, nil
}
