// Package board is the mutation surface of the site: posts and comments,
// member signup and administration, settings, and the login session. All
// reads come from the sync controller's reconciled documents; every
// mutation produces a whole replacement document and pushes it.
package board

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ourunion/unionhub/internal/client/remote"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
)

// Store is the reconciled-state surface the service reads and writes.
// Satisfied by *sync.Controller.
type Store interface {
	Value(key core.EntityKey) json.RawMessage
	Push(ctx context.Context, key core.EntityKey, value json.RawMessage) error
}

// Identity is the credential side of the remote server. Credentials
// never enter a synchronized document; they only travel here.
// Satisfied by *remote.Client.
type Identity interface {
	Enabled() bool
	Register(ctx context.Context, login, password, memberID string) error
	Login(ctx context.Context, login, password string) (*remote.Session, error)
	SetSession(accessToken, refreshToken string)
}

// Attachments is the object-storage side of the remote server: presigned
// uploads and download-URL resolution. Satisfied by *remote.Client.
type Attachments interface {
	Enabled() bool
	PresignPut(ctx context.Context) (string, string, error)
	Upload(ctx context.Context, presignedURL string, content io.Reader) error
	AttachmentURL(ctx context.Context, key string) (string, error)
}

// SessionCache persists the login session locally. Satisfied by
// *cache.Cache.
type SessionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// Service implements the board operations on top of the sync controller.
type Service struct {
	store       Store
	identity    Identity
	attachments Attachments
	sessions    SessionCache
	logger      logging.Logger

	// test seams
	now   func() time.Time
	newID func() string

	session *Session
}

func NewService(store Store, identity Identity, attachments Attachments,
	sessions SessionCache, logger logging.Logger) *Service {
	return &Service{
		store:       store,
		identity:    identity,
		attachments: attachments,
		sessions:    sessions,
		logger:      logger.With("module", "board"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Posts returns the live post set.
func (s *Service) Posts() ([]core.Post, error) {
	return s.decodePosts(core.KeyPosts)
}

// DeletedPosts returns the trash.
func (s *Service) DeletedPosts() ([]core.Post, error) {
	return s.decodePosts(core.KeyDeletedPosts)
}

func (s *Service) decodePosts(key core.EntityKey) ([]core.Post, error) {
	var posts []core.Post
	if err := json.Unmarshal(s.store.Value(key), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Members returns the member set.
func (s *Service) Members() ([]core.Member, error) {
	var members []core.Member
	if err := json.Unmarshal(s.store.Value(core.KeyMembers), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Settings returns the current site settings.
func (s *Service) Settings() (core.SiteSettings, error) {
	var settings core.SiteSettings
	if err := json.Unmarshal(s.store.Value(core.KeySettings), &settings); err != nil {
		return core.SiteSettings{}, err
	}
	return settings, nil
}

func (s *Service) pushPosts(ctx context.Context, key core.EntityKey, posts []core.Post) error {
	if posts == nil {
		posts = []core.Post{}
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return s.store.Push(ctx, key, data)
}

func (s *Service) pushMembers(ctx context.Context, members []core.Member) error {
	if members == nil {
		members = []core.Member{}
	}
	data, err := json.Marshal(members)
	if err != nil {
		return err
	}
	return s.store.Push(ctx, core.KeyMembers, data)
}
