package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourunion/unionhub/internal/client/remote"
	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
)

type fakeStore struct {
	docs map[core.EntityKey]json.RawMessage
}

func newFakeStore() *fakeStore {
	settings, _ := json.Marshal(core.DefaultSettings())
	return &fakeStore{docs: map[core.EntityKey]json.RawMessage{
		core.KeySettings:     settings,
		core.KeyPosts:        json.RawMessage(`[]`),
		core.KeyDeletedPosts: json.RawMessage(`[]`),
		core.KeyMembers:      json.RawMessage(`[]`),
	}}
}

func (f *fakeStore) Value(key core.EntityKey) json.RawMessage {
	return f.docs[key]
}

func (f *fakeStore) Push(ctx context.Context, key core.EntityKey, value json.RawMessage) error {
	if err := core.ValidateEntity(key, value); err != nil {
		return err
	}
	f.docs[key] = append(json.RawMessage(nil), value...)
	return nil
}

type registration struct {
	login, password, memberID string
}

type fakeIdentity struct {
	enabled     bool
	registered  []registration
	loginResult *remote.Session
	loginErr    error
	tokens      [2]string
}

func (f *fakeIdentity) Enabled() bool { return f.enabled }

func (f *fakeIdentity) Register(ctx context.Context, login, password, memberID string) error {
	f.registered = append(f.registered, registration{login, password, memberID})
	return nil
}

func (f *fakeIdentity) Login(ctx context.Context, login, password string) (*remote.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeIdentity) SetSession(accessToken, refreshToken string) {
	f.tokens = [2]string{accessToken, refreshToken}
}

type fakeAttachments struct {
	enabled  bool
	uploads  int
	uploaded []byte
}

func (f *fakeAttachments) Enabled() bool { return f.enabled }

func (f *fakeAttachments) PresignPut(ctx context.Context) (string, string, error) {
	return fmt.Sprintf("attachments/2026/09/01/key-%d", f.uploads), "https://storage.example/put", nil
}

func (f *fakeAttachments) Upload(ctx context.Context, presignedURL string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.uploads++
	f.uploaded = data
	return nil
}

func (f *fakeAttachments) AttachmentURL(ctx context.Context, key string) (string, error) {
	return "https://storage.example/get/" + key, nil
}

type fakeSessionCache struct {
	data map[string]string
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{data: make(map[string]string)}
}

func (f *fakeSessionCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", common.ErrNotFound
	}
	return v, nil
}

func (f *fakeSessionCache) Set(ctx context.Context, key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeSessionCache) Remove(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeIdentity, *fakeSessionCache) {
	t.Helper()

	store := newFakeStore()
	identity := &fakeIdentity{enabled: true}
	sessions := newFakeSessionCache()
	svc := NewService(store, identity, &fakeAttachments{enabled: true}, sessions, logging.NewJSON(io.Discard))

	var seq int
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	}
	return svc, store, identity, sessions
}

func asAdmin(svc *Service) {
	svc.session = &Session{MemberID: "admin", LoginID: "admin", IsAdmin: true}
}

func asMember(svc *Service, memberID string) {
	svc.session = &Session{MemberID: memberID, LoginID: "member"}
}

func TestCreatePost_NoticeBoard(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	asAdmin(svc)

	post, err := svc.CreatePost(context.Background(), PostInput{
		Type:  core.BoardNoticeAll,
		Title: "공고",
	})
	require.NoError(t, err)
	assert.Equal(t, "공고", post.Title)
	assert.Equal(t, core.BoardNoticeAll, post.Type)
	assert.Zero(t, post.Views)
	assert.NotNil(t, post.Comments)
	assert.Empty(t, post.Comments)
	assert.Equal(t, "2026-09-01", post.CreatedAt)

	var stored []core.Post
	require.NoError(t, json.Unmarshal(store.Value(core.KeyPosts), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, post, stored[0])
}

func TestCreatePost_AdminBoardRejectsGuests(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreatePost(context.Background(), PostInput{
		Type:  core.BoardNoticeAll,
		Title: "공고",
	})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCreatePost_FreeBoardOpenToGuests(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	post, err := svc.CreatePost(context.Background(), PostInput{
		Type:     core.BoardFree,
		Title:    "자유글",
		Author:   "익명",
		Password: "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "1234", post.Password)
}

func TestDeletePost_PasswordGuard(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	post, err := svc.CreatePost(context.Background(), PostInput{
		Type: core.BoardFree, Title: "글", Password: "secret",
	})
	require.NoError(t, err)

	err = svc.DeletePost(context.Background(), post.ID, "wrong")
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	var posts []core.Post
	require.NoError(t, json.Unmarshal(store.Value(core.KeyPosts), &posts))
	assert.Len(t, posts, 1)

	require.NoError(t, svc.DeletePost(context.Background(), post.ID, "secret"))

	require.NoError(t, json.Unmarshal(store.Value(core.KeyPosts), &posts))
	assert.Empty(t, posts)
}

func TestDeletePost_AdminBypassesPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	post, err := svc.CreatePost(context.Background(), PostInput{
		Type: core.BoardFree, Title: "글", Password: "secret",
	})
	require.NoError(t, err)

	asAdmin(svc)
	require.NoError(t, svc.DeletePost(context.Background(), post.ID, ""))

	deleted, err := svc.DeletedPosts()
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, post.ID, deleted[0].ID)
}

func TestSoftDeleteRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	asAdmin(svc)

	original, err := svc.CreatePost(context.Background(), PostInput{
		Type: core.BoardResources, Title: "자료", Content: "내용", Author: "관리자",
	})
	require.NoError(t, err)
	require.NoError(t, svc.AddComment(context.Background(), original.ID, "익명", "잘 봤습니다"))

	posts, err := svc.Posts()
	require.NoError(t, err)
	withComment := posts[0]

	require.NoError(t, svc.DeletePost(context.Background(), original.ID, ""))
	require.NoError(t, svc.RestorePost(context.Background(), original.ID))

	posts, err = svc.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, withComment, posts[0])

	deleted, err := svc.DeletedPosts()
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestPurgePost(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	asAdmin(svc)

	post, err := svc.CreatePost(context.Background(), PostInput{Type: core.BoardFree, Title: "글"})
	require.NoError(t, err)
	require.NoError(t, svc.DeletePost(context.Background(), post.ID, ""))
	require.NoError(t, svc.PurgePost(context.Background(), post.ID))

	deleted, err := svc.DeletedPosts()
	require.NoError(t, err)
	assert.Empty(t, deleted)

	assert.ErrorIs(t, svc.RestorePost(context.Background(), post.ID), common.ErrNotFound)
}

func TestIncrementViews(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	post, err := svc.CreatePost(context.Background(), PostInput{Type: core.BoardFree, Title: "글"})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementViews(context.Background(), post.ID))
	require.NoError(t, svc.IncrementViews(context.Background(), post.ID))

	posts, err := svc.Posts()
	require.NoError(t, err)
	assert.Equal(t, 2, posts[0].Views)
}

func TestCommentsAndReplies(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	post, err := svc.CreatePost(context.Background(), PostInput{Type: core.BoardFree, Title: "글"})
	require.NoError(t, err)

	require.NoError(t, svc.AddComment(context.Background(), post.ID, "갑", "첫 댓글"))

	posts, err := svc.Posts()
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 1)
	comment := posts[0].Comments[0]
	assert.Equal(t, "2026-09-01 10:30", comment.CreatedAt)

	require.NoError(t, svc.AddReply(context.Background(), post.ID, comment.ID, "을", "답글"))

	posts, err = svc.Posts()
	require.NoError(t, err)
	require.Len(t, posts[0].Comments[0].Replies, 1)
	assert.Empty(t, posts[0].Comments[0].Replies[0].Replies)

	err = svc.AddReply(context.Background(), post.ID, "missing", "병", "x")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSignup(t *testing.T) {
	svc, store, identity, _ := newTestService(t)

	member, err := svc.Signup(context.Background(), SignupInput{
		LoginID:  "hong",
		Password: "pw123",
		Name:     "홍길동",
		Phone:    "010-1234-5678",
	})
	require.NoError(t, err)
	assert.False(t, member.Approved)
	assert.Equal(t, "2026-09-01", member.SignupDate)

	// credentials go to the identity service, never into the document
	require.Len(t, identity.registered, 1)
	assert.Equal(t, registration{"hong", "pw123", member.ID}, identity.registered[0])
	assert.NotContains(t, string(store.Value(core.KeyMembers)), "pw123")

	_, err = svc.Signup(context.Background(), SignupInput{LoginID: "hong", Name: "다른사람"})
	assert.ErrorIs(t, err, common.ErrLoginTaken)
}

func TestMemberAdministration(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	member, err := svc.Signup(context.Background(), SignupInput{LoginID: "hong", Name: "홍길동"})
	require.NoError(t, err)

	// member administration requires the admin role
	assert.ErrorIs(t, svc.ApproveMember(context.Background(), member.ID), common.ErrUnauthorized)

	asAdmin(svc)
	require.NoError(t, svc.ApproveMember(context.Background(), member.ID))

	members, err := svc.Members()
	require.NoError(t, err)
	assert.True(t, members[0].Approved)

	updated := members[0]
	updated.Department = "조직국"
	updated.LoginID = "hacked" // must not stick
	require.NoError(t, svc.UpdateMember(context.Background(), updated))

	members, err = svc.Members()
	require.NoError(t, err)
	assert.Equal(t, "조직국", members[0].Department)
	assert.Equal(t, "hong", members[0].LoginID)

	require.NoError(t, svc.RemoveMember(context.Background(), member.ID))
	members, err = svc.Members()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestUpdateSettings(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	settings, err := svc.Settings()
	require.NoError(t, err)
	settings.HeroTitle = "새 제목"

	assert.ErrorIs(t, svc.UpdateSettings(context.Background(), settings), common.ErrUnauthorized)

	asAdmin(svc)
	require.NoError(t, svc.UpdateSettings(context.Background(), settings))

	got, err := svc.Settings()
	require.NoError(t, err)
	assert.Equal(t, "새 제목", got.HeroTitle)
}

func TestLoginPersistsSession(t *testing.T) {
	svc, _, identity, sessions := newTestService(t)

	member, err := svc.Signup(context.Background(), SignupInput{LoginID: "hong", Name: "홍길동"})
	require.NoError(t, err)

	identity.loginResult = &remote.Session{
		AccessToken:  "a1",
		RefreshToken: "r1",
		MemberID:     member.ID,
		IsAdmin:      false,
	}

	session, err := svc.Login(context.Background(), "hong", "pw")
	require.NoError(t, err)
	assert.Equal(t, "홍길동", session.Name)
	assert.False(t, svc.IsAdmin())

	// a fresh service restores the saved session from the cache
	store2 := newFakeStore()
	identity2 := &fakeIdentity{enabled: true}
	svc2 := NewService(store2, identity2, &fakeAttachments{enabled: true}, sessions, logging.NewJSON(io.Discard))
	require.NoError(t, svc2.RestoreSession(context.Background()))
	require.NotNil(t, svc2.Session())
	assert.Equal(t, "hong", svc2.Session().LoginID)
	assert.Equal(t, [2]string{"a1", "r1"}, identity2.tokens)
}

func TestLogoutClearsSession(t *testing.T) {
	svc, _, identity, sessions := newTestService(t)
	asMember(svc, "m1")
	svc.saveSession(context.Background())

	svc.Logout(context.Background())

	assert.Nil(t, svc.Session())
	assert.Equal(t, [2]string{"", ""}, identity.tokens)
	_, err := sessions.Get(context.Background(), sessionKey)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAttachFile(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	atts := &fakeAttachments{enabled: true}
	svc.attachments = atts

	post, err := svc.CreatePost(context.Background(), PostInput{Type: core.BoardFree, Title: "글"})
	require.NoError(t, err)

	att, err := svc.AttachFile(context.Background(), post.ID, "", "규약.pdf",
		bytes.NewReader([]byte("file body")), 9)
	require.NoError(t, err)
	assert.Equal(t, "규약.pdf", att.Name)
	assert.NotEmpty(t, att.StorageKey)
	assert.Equal(t, []byte("file body"), atts.uploaded)

	var posts []core.Post
	require.NoError(t, json.Unmarshal(store.Value(core.KeyPosts), &posts))
	require.Len(t, posts[0].Attachments, 1)

	url, err := svc.AttachmentURL(context.Background(), posts[0].Attachments[0])
	require.NoError(t, err)
	assert.Contains(t, url, att.StorageKey)
}

func TestAttachFile_PasswordGuard(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	post, err := svc.CreatePost(context.Background(), PostInput{
		Type: core.BoardFree, Title: "글", Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.AttachFile(context.Background(), post.ID, "wrong", "x.pdf",
		bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, common.ErrWrongPassword)
}

func TestLoginFailsWrongPassword(t *testing.T) {
	svc, _, identity, _ := newTestService(t)
	identity.loginErr = common.ErrUnauthorized

	_, err := svc.Login(context.Background(), "hong", "nope")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Nil(t, svc.Session())
}

func TestLoginDisabledRemote(t *testing.T) {
	svc, _, identity, _ := newTestService(t)
	identity.enabled = false

	_, err := svc.Login(context.Background(), "hong", "pw")
	assert.ErrorIs(t, err, common.ErrRemoteDisabled)
}
