package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ourunion/unionhub/internal/common"
	core "github.com/ourunion/unionhub/internal/models"
)

// SignupInput is a membership application.
type SignupInput struct {
	LoginID    string
	Password   string
	Name       string
	Phone      string
	Email      string
	Department string
}

// Signup checks login-id availability against the member set, creates an
// unapproved member record, and registers the credentials with the
// identity service. The password never enters the synchronized document.
func (s *Service) Signup(ctx context.Context, in SignupInput) (core.Member, error) {
	if in.LoginID == "" || in.Name == "" {
		return core.Member{}, fmt.Errorf("login id and name are required")
	}

	members, err := s.Members()
	if err != nil {
		return core.Member{}, err
	}
	for _, m := range members {
		if m.LoginID == in.LoginID {
			return core.Member{}, common.ErrLoginTaken
		}
	}

	member := core.Member{
		ID:         s.newID(),
		LoginID:    in.LoginID,
		Name:       in.Name,
		Phone:      in.Phone,
		Email:      in.Email,
		Department: in.Department,
		Approved:   false,
		SignupDate: s.now().Format(core.DateFormat),
	}

	if s.identity.Enabled() {
		if err := s.identity.Register(ctx, in.LoginID, in.Password, member.ID); err != nil {
			return core.Member{}, err
		}
	}

	members = append(members, member)
	if err := s.pushMembers(ctx, members); err != nil {
		return core.Member{}, err
	}
	return member, nil
}

// ApproveMember marks a pending member as approved. Admin only.
func (s *Service) ApproveMember(ctx context.Context, id string) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}

	members, err := s.Members()
	if err != nil {
		return err
	}
	for i, m := range members {
		if m.ID == id {
			members[i].Approved = true
			return s.pushMembers(ctx, members)
		}
	}
	return common.ErrNotFound
}

// UpdateMember replaces the editable profile fields. Admin only.
func (s *Service) UpdateMember(ctx context.Context, updated core.Member) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}

	members, err := s.Members()
	if err != nil {
		return err
	}
	for i, m := range members {
		if m.ID == updated.ID {
			updated.LoginID = m.LoginID // login id is immutable
			updated.SignupDate = m.SignupDate
			members[i] = updated
			return s.pushMembers(ctx, members)
		}
	}
	return common.ErrNotFound
}

// RemoveMember deletes a member record. Admin only.
func (s *Service) RemoveMember(ctx context.Context, id string) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}

	members, err := s.Members()
	if err != nil {
		return err
	}
	for i, m := range members {
		if m.ID == id {
			members = append(members[:i], members[i+1:]...)
			return s.pushMembers(ctx, members)
		}
	}
	return common.ErrNotFound
}

// UpdateSettings replaces the site settings wholesale. Admin only.
func (s *Service) UpdateSettings(ctx context.Context, settings core.SiteSettings) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}
	if err := core.ValidateSettings(settings); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.store.Push(ctx, core.KeySettings, data)
}
