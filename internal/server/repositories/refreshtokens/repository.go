// Package refreshtokens stores rotated refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/ourunion/unionhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, accountID, token string, ttl time.Duration) error
	// Find returns the token record or common.ErrNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
