// Package services contains the server-side business logic: entity-set
// storage with schema validation, login identities, and attachment
// presigning.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	core "github.com/ourunion/unionhub/internal/models"
	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/logging"
	"github.com/ourunion/unionhub/internal/server/models"
	"github.com/ourunion/unionhub/internal/server/notifier"
	"github.com/ourunion/unionhub/internal/server/repositories/repomanager"
)

// EntityService reads and replaces entity-set documents. Every committed
// replace is broadcast on the corresponding notifier channel.
type EntityService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hub    *notifier.Hub
	logger logging.Logger
}

func NewEntityService(db *sql.DB, repos repomanager.RepositoryManager, hub *notifier.Hub, l logging.Logger) *EntityService {
	return &EntityService{db: db, repos: repos, hub: hub, logger: l.With("module", "entities")}
}

// Get returns the stored document for key, or common.ErrNotFound when the
// row has never been written.
func (s *EntityService) Get(ctx context.Context, key core.EntityKey) (*models.EntityRow, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: unknown key %q", common.ErrInvalidEntity, key)
	}
	repo := s.repos.Entities(s.db)
	return repo.Get(ctx, string(key))
}

// Upsert validates data against the set's schema, replaces the row
// whole-value, and notifies subscribers.
func (s *EntityService) Upsert(ctx context.Context, key core.EntityKey, data json.RawMessage) (*models.EntityRow, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: unknown key %q", common.ErrInvalidEntity, key)
	}
	if err := core.ValidateEntity(key, data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidEntity, err)
	}

	repo := s.repos.Entities(s.db)
	row, err := repo.Upsert(ctx, string(key), data)
	if err != nil {
		return nil, fmt.Errorf("error storing %s: %w", key, err)
	}

	s.hub.Broadcast(ctx, notifier.Event{Key: string(key), Data: row.Data, UpdatedAt: row.UpdatedAt})
	s.logger.Info(ctx, "entity set replaced", "key", key, "bytes", len(data))

	return row, nil
}
