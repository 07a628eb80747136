package board

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ourunion/unionhub/internal/client/cache"
	"github.com/ourunion/unionhub/internal/client/remote"
	"github.com/ourunion/unionhub/internal/client/sync"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
	srvconfig "github.com/ourunion/unionhub/internal/server/config"
	"github.com/ourunion/unionhub/internal/server/httpapi"
	"github.com/ourunion/unionhub/internal/server/notifier"
	"github.com/ourunion/unionhub/internal/server/repositories/repomanager"
	"github.com/ourunion/unionhub/internal/server/services"
)

// startEntityServer runs the real HTTP API on an httptest listener with
// in-memory repositories behind it.
func startEntityServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &srvconfig.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidityDuration = time.Minute
	cfg.RefreshTokenValidityDuration = time.Hour

	log := logging.NewJSON(io.Discard)
	hub := notifier.NewHub(log)
	repos := repomanager.NewMemoryRepositoryManager()

	srv := httpapi.NewServer(":0", log,
		services.NewEntityService(db, repos, hub, log),
		services.NewIdentityService(db, repos, cfg),
		services.NewAttachmentService(cfg),
		hub)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// A visitor signing up holds no token yet, so the member document travels
// to the server as a tokenless write. The record must land in the remote
// store, not only in the local cache.
func TestSignup_GuestWriteReachesRemoteStore(t *testing.T) {
	ts := startEntityServer(t)
	ctx := context.Background()

	log := logging.NewJSON(io.Discard)
	cacheStore, db, err := cache.Open(ctx, filepath.Join(t.TempDir(), "unionhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rc := remote.New(ts.URL, log)
	controller := sync.NewController(rc, cacheStore, rc, log, 50*time.Millisecond, time.Second)
	controller.Initialize(ctx)

	svc := NewService(controller, rc, rc, cacheStore, log)

	member, err := svc.Signup(ctx, SignupInput{
		LoginID:  "hong",
		Password: "pw-1234",
		Name:     "홍길동",
	})
	require.NoError(t, err)

	// the remote upsert runs in the background
	require.Eventually(t, func() bool {
		row, err := rc.FetchEntity(ctx, core.KeyMembers)
		if err != nil {
			return false
		}
		var members []core.Member
		if err := json.Unmarshal(row.Data, &members); err != nil {
			return false
		}
		return len(members) == 1 && members[0].ID == member.ID
	}, 2*time.Second, 20*time.Millisecond)

	// the credentials were registered alongside the profile
	session, err := rc.Login(ctx, "hong", "pw-1234")
	require.NoError(t, err)
	assert.Equal(t, member.ID, session.MemberID)
	assert.False(t, session.IsAdmin)
}
