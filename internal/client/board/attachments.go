package board

import (
	"context"
	"io"

	"github.com/ourunion/unionhub/internal/common"
	core "github.com/ourunion/unionhub/internal/models"
)

// AttachFile uploads content to object storage through a presigned URL
// and records the attachment on the post. The post's password rule
// applies as for edits.
func (s *Service) AttachFile(ctx context.Context, postID, password, name string,
	content io.Reader, size int64) (core.Attachment, error) {
	if !s.attachments.Enabled() {
		return core.Attachment{}, common.ErrRemoteDisabled
	}

	posts, err := s.Posts()
	if err != nil {
		return core.Attachment{}, err
	}
	for i, p := range posts {
		if p.ID != postID {
			continue
		}
		if err := s.guard(p, password); err != nil {
			return core.Attachment{}, err
		}

		key, uploadURL, err := s.attachments.PresignPut(ctx)
		if err != nil {
			return core.Attachment{}, err
		}
		if err := s.attachments.Upload(ctx, uploadURL, content); err != nil {
			return core.Attachment{}, err
		}

		att := core.Attachment{Name: name, StorageKey: key, Size: size}
		posts[i].Attachments = append(posts[i].Attachments, att)
		if err := s.pushPosts(ctx, core.KeyPosts, posts); err != nil {
			return core.Attachment{}, err
		}
		return att, nil
	}
	return core.Attachment{}, common.ErrNotFound
}

// AttachmentURL resolves an attachment's storage key to a time-limited
// download URL.
func (s *Service) AttachmentURL(ctx context.Context, att core.Attachment) (string, error) {
	if att.StorageKey == "" {
		return att.URL, nil
	}
	if !s.attachments.Enabled() {
		return "", common.ErrRemoteDisabled
	}
	return s.attachments.AttachmentURL(ctx, att.StorageKey)
}
