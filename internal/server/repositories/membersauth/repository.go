// Package membersauth stores login identities separately from the
// synchronized member profiles. Only bcrypt hashes ever land here.
package membersauth

import (
	"context"

	"github.com/ourunion/unionhub/internal/server/models"
)

type Repository interface {
	// Create inserts a new account; a duplicate login yields
	// common.ErrLoginTaken.
	Create(ctx context.Context, account *models.Account) error
	// GetByLogin returns the account or common.ErrNotFound.
	GetByLogin(ctx context.Context, login string) (*models.Account, error)
	// GetByID returns the account or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// Delete removes the account (member withdrawal / admin removal).
	Delete(ctx context.Context, id string) error
}
