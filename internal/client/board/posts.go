package board

import (
	"context"
	"fmt"

	"github.com/ourunion/unionhub/internal/common"
	core "github.com/ourunion/unionhub/internal/models"
)

// PostInput is the user-supplied part of a new or edited post.
type PostInput struct {
	Type        core.BoardType
	Title       string
	Content     string
	Author      string
	Password    string
	Attachments []core.Attachment
}

// CreatePost validates input, stamps id/date/counters, and prepends the
// post to the board. Admin-only boards reject non-admin sessions.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (core.Post, error) {
	if !in.Type.Valid() {
		return core.Post{}, fmt.Errorf("unknown board type %q", in.Type)
	}
	if in.Type.AdminOnly() && !s.IsAdmin() {
		return core.Post{}, common.ErrUnauthorized
	}
	if in.Title == "" {
		return core.Post{}, fmt.Errorf("title is required")
	}

	post := core.Post{
		ID:          s.newID(),
		Type:        in.Type,
		Title:       in.Title,
		Content:     in.Content,
		Author:      in.Author,
		CreatedAt:   s.now().Format(core.DateFormat),
		Views:       0,
		Attachments: in.Attachments,
		Password:    in.Password,
		Comments:    []core.Comment{},
	}

	posts, err := s.Posts()
	if err != nil {
		return core.Post{}, err
	}
	posts = append([]core.Post{post}, posts...)

	if err := s.pushPosts(ctx, core.KeyPosts, posts); err != nil {
		return core.Post{}, err
	}
	return post, nil
}

// guard applies the password rule shared by edit and delete: an admin
// passes always; otherwise a post with a password requires a match.
func (s *Service) guard(post core.Post, password string) error {
	if s.IsAdmin() {
		return nil
	}
	if post.Password != "" && post.Password != password {
		return common.ErrWrongPassword
	}
	return nil
}

// EditPost replaces title/content/attachments of an existing post.
func (s *Service) EditPost(ctx context.Context, id string, in PostInput, password string) error {
	posts, err := s.Posts()
	if err != nil {
		return err
	}
	for i, p := range posts {
		if p.ID != id {
			continue
		}
		if err := s.guard(p, password); err != nil {
			return err
		}
		posts[i].Title = in.Title
		posts[i].Content = in.Content
		if in.Attachments != nil {
			posts[i].Attachments = in.Attachments
		}
		return s.pushPosts(ctx, core.KeyPosts, posts)
	}
	return common.ErrNotFound
}

// DeletePost soft-deletes: the post moves from the live board to the
// trash, all fields intact.
func (s *Service) DeletePost(ctx context.Context, id, password string) error {
	posts, err := s.Posts()
	if err != nil {
		return err
	}
	for i, p := range posts {
		if p.ID != id {
			continue
		}
		if err := s.guard(p, password); err != nil {
			return err
		}

		deleted, err := s.DeletedPosts()
		if err != nil {
			return err
		}
		deleted = append([]core.Post{p}, deleted...)
		posts = append(posts[:i], posts[i+1:]...)

		if err := s.pushPosts(ctx, core.KeyPosts, posts); err != nil {
			return err
		}
		return s.pushPosts(ctx, core.KeyDeletedPosts, deleted)
	}
	return common.ErrNotFound
}

// RestorePost moves a post from the trash back to its board. Admin only.
func (s *Service) RestorePost(ctx context.Context, id string) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}

	deleted, err := s.DeletedPosts()
	if err != nil {
		return err
	}
	for i, p := range deleted {
		if p.ID != id {
			continue
		}
		posts, err := s.Posts()
		if err != nil {
			return err
		}
		posts = append([]core.Post{p}, posts...)
		deleted = append(deleted[:i], deleted[i+1:]...)

		if err := s.pushPosts(ctx, core.KeyDeletedPosts, deleted); err != nil {
			return err
		}
		return s.pushPosts(ctx, core.KeyPosts, posts)
	}
	return common.ErrNotFound
}

// PurgePost removes a post from the trash permanently. Admin only.
func (s *Service) PurgePost(ctx context.Context, id string) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}

	deleted, err := s.DeletedPosts()
	if err != nil {
		return err
	}
	for i, p := range deleted {
		if p.ID == id {
			deleted = append(deleted[:i], deleted[i+1:]...)
			return s.pushPosts(ctx, core.KeyDeletedPosts, deleted)
		}
	}
	return common.ErrNotFound
}

// IncrementViews bumps the view counter of a post.
func (s *Service) IncrementViews(ctx context.Context, id string) error {
	posts, err := s.Posts()
	if err != nil {
		return err
	}
	for i, p := range posts {
		if p.ID == id {
			posts[i].Views++
			return s.pushPosts(ctx, core.KeyPosts, posts)
		}
	}
	return common.ErrNotFound
}

// AddComment appends a comment to a post.
func (s *Service) AddComment(ctx context.Context, postID, author, content string) error {
	posts, err := s.Posts()
	if err != nil {
		return err
	}
	for i, p := range posts {
		if p.ID == postID {
			posts[i].Comments = append(posts[i].Comments,
				core.NewComment(s.newID(), author, content, s.now()))
			return s.pushPosts(ctx, core.KeyPosts, posts)
		}
	}
	return common.ErrNotFound
}

// AddReply appends a reply under an existing comment. Replies nest one
// level only; replying to a reply is rejected by the document validator.
func (s *Service) AddReply(ctx context.Context, postID, commentID, author, content string) error {
	posts, err := s.Posts()
	if err != nil {
		return err
	}
	for i, p := range posts {
		if p.ID != postID {
			continue
		}
		for j, c := range p.Comments {
			if c.ID == commentID {
				reply := core.NewComment(s.newID(), author, content, s.now())
				reply.Replies = nil
				posts[i].Comments[j].Replies = append(posts[i].Comments[j].Replies, reply)
				return s.pushPosts(ctx, core.KeyPosts, posts)
			}
		}
		return common.ErrNotFound
	}
	return common.ErrNotFound
}
