package services

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
	"github.com/ourunion/unionhub/internal/server/notifier"
	"github.com/ourunion/unionhub/internal/server/repositories/repomanager"
)

func newEntityService() (*EntityService, *notifier.Hub) {
	log := logging.NewJSON(io.Discard)
	hub := notifier.NewHub(log)
	repos := repomanager.NewMemoryRepositoryManager()
	return NewEntityService(nil, repos, hub, log), hub
}

func TestEntityService_UpsertThenGet(t *testing.T) {
	svc, _ := newEntityService()
	ctx := context.Background()

	posts := []core.Post{{ID: "1", Type: core.BoardNoticeAll, Title: "공고", Comments: []core.Comment{}}}
	data, err := json.Marshal(posts)
	require.NoError(t, err)

	row, err := svc.Upsert(ctx, core.KeyPosts, data)
	require.NoError(t, err)
	assert.Equal(t, string(core.KeyPosts), row.ID)
	assert.False(t, row.UpdatedAt.IsZero())

	got, err := svc.Get(ctx, core.KeyPosts)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(got.Data))
}

func TestEntityService_GetMissingRow(t *testing.T) {
	svc, _ := newEntityService()

	_, err := svc.Get(context.Background(), core.KeySettings)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEntityService_UpsertRejectsMalformedPayload(t *testing.T) {
	svc, _ := newEntityService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, core.KeyPosts, json.RawMessage(`{"not":"a list"}`))
	assert.ErrorIs(t, err, common.ErrInvalidEntity)

	_, err = svc.Upsert(ctx, core.KeyPosts, json.RawMessage(`[{"id":"1","type":"gallery"}]`))
	assert.ErrorIs(t, err, common.ErrInvalidEntity)

	_, err = svc.Upsert(ctx, core.EntityKey("union_unknown"), json.RawMessage(`[]`))
	assert.ErrorIs(t, err, common.ErrInvalidEntity)
}

func TestEntityService_UpsertReplacesWholeValue(t *testing.T) {
	svc, _ := newEntityService()
	ctx := context.Background()

	v1 := []core.Post{{ID: "1", Type: core.BoardFree, Title: "v1", Comments: []core.Comment{}}}
	v2 := []core.Post{{ID: "2", Type: core.BoardFree, Title: "v2", Comments: []core.Comment{}}}

	d1, _ := json.Marshal(v1)
	d2, _ := json.Marshal(v2)

	_, err := svc.Upsert(ctx, core.KeyPosts, d1)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, core.KeyPosts, d2)
	require.NoError(t, err)

	row, err := svc.Get(ctx, core.KeyPosts)
	require.NoError(t, err)

	var stored []core.Post
	require.NoError(t, json.Unmarshal(row.Data, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "2", stored[0].ID)
}

func TestEntityService_UpsertBroadcasts(t *testing.T) {
	svc, hub := newEntityService()
	ctx := context.Background()

	sub := hub.Subscribe(string(core.KeyMembers))
	t.Cleanup(sub.Unsubscribe)

	members := []core.Member{{ID: "m1", LoginID: "hong", Name: "홍길동"}}
	data, _ := json.Marshal(members)

	_, err := svc.Upsert(ctx, core.KeyMembers, data)
	require.NoError(t, err)

	select {
	case ev := <-sub.C:
		assert.Equal(t, string(core.KeyMembers), ev.Key)
		assert.JSONEq(t, string(data), string(ev.Data))
	default:
		t.Fatal("expected a change event")
	}
}
