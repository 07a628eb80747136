package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/server/config"
	"github.com/ourunion/unionhub/internal/server/repositories/repomanager"
)

// identityFixture wires the service to in-memory repositories. The sqlite
// handle only carries the refresh-token rotation transaction; the memory
// repositories ignore it.
func identityFixture(t *testing.T) *IdentityService {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidityDuration = time.Minute
	cfg.RefreshTokenValidityDuration = time.Hour

	return NewIdentityService(db, repomanager.NewMemoryRepositoryManager(), cfg)
}

func TestIdentity_RegisterAndLogin(t *testing.T) {
	svc := identityFixture(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "hong", "secret-pw", "m1")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.NotEqual(t, "secret-pw", account.PasswordHash)

	got, pair, err := svc.Login(ctx, "hong", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
}

func TestIdentity_LoginWrongPassword(t *testing.T) {
	svc := identityFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "hong", "secret-pw", "m1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "hong", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody", "secret-pw")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestIdentity_DuplicateLogin(t *testing.T) {
	svc := identityFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "hong", "pw1", "m1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "hong", "pw2", "m2")
	assert.ErrorIs(t, err, common.ErrLoginTaken)
}

func TestIdentity_RefreshRotation(t *testing.T) {
	svc := identityFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "hong", "secret-pw", "m1")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "hong", "secret-pw")
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// the old token was rotated away
	_, err = svc.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestIdentity_EnsureAdmin(t *testing.T) {
	svc := identityFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "bootstrap-pw"))

	// a second call leaves the existing credential alone
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "changed-pw"))

	account, pair, err := svc.Login(ctx, "admin", "bootstrap-pw")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin)

	claims, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestIdentity_EnsureAdminDisabled(t *testing.T) {
	svc := identityFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", "unused"))

	_, _, err := svc.Login(ctx, "", "unused")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestIdentity_VerifyGarbageToken(t *testing.T) {
	svc := identityFixture(t)

	_, err := svc.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
