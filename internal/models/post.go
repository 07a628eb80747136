package models

import (
	"fmt"
	"time"
)

// DateFormat is the day-granularity format used for post and signup dates.
// CommentDateFormat adds the minute for comment timestamps.
const (
	DateFormat        = "2006-01-02"
	CommentDateFormat = "2006-01-02 15:04"
)

// Attachment describes a file attached to a post. The content itself lives
// in object storage under StorageKey; URL is a short-lived download link
// resolved on demand.
type Attachment struct {
	Name       string `json:"name"`
	StorageKey string `json:"storageKey,omitempty"`
	URL        string `json:"url,omitempty"`
	Size       int64  `json:"size,omitempty"`
}

// Comment is a post comment. Replies nest exactly one level deep: a reply
// never carries replies of its own.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
	Replies   []Comment `json:"replies,omitempty"`
}

// Post is one board entry. Password, when set, guards edit and delete for
// non-admin callers.
type Post struct {
	ID          string       `json:"id"`
	Type        BoardType    `json:"type"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Author      string       `json:"author"`
	CreatedAt   string       `json:"createdAt"`
	Views       int          `json:"views"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Password    string       `json:"password,omitempty"`
	Comments    []Comment    `json:"comments"`
}

// NewComment builds a comment stamped with the current time.
func NewComment(id, author, content string, now time.Time) Comment {
	return Comment{
		ID:        id,
		Author:    author,
		Content:   content,
		CreatedAt: now.Format(CommentDateFormat),
		Replies:   []Comment{},
	}
}

// ValidatePosts checks the structural invariants of a post collection:
// unique non-empty ids, known board types, non-negative view counters, and
// single-level comment replies.
func ValidatePosts(posts []Post) error {
	seen := make(map[string]struct{}, len(posts))
	for i, p := range posts {
		if p.ID == "" {
			return fmt.Errorf("post %d: empty id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("post %q: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}
		if !p.Type.Valid() {
			return fmt.Errorf("post %q: unknown board type %q", p.ID, p.Type)
		}
		if p.Views < 0 {
			return fmt.Errorf("post %q: negative view counter", p.ID)
		}
		for _, c := range p.Comments {
			for _, r := range c.Replies {
				if len(r.Replies) > 0 {
					return fmt.Errorf("post %q: reply %q nests deeper than one level", p.ID, r.ID)
				}
			}
		}
	}
	return nil
}
