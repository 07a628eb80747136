package board

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ourunion/unionhub/internal/common"
)

// sessionKey is the cache slot the saved session lives in. Like the
// entity sets, it stays under the union_ prefix.
const sessionKey = "union_session"

// Session is the locally persisted login state. Guest is represented by
// the absence of a session.
type Session struct {
	MemberID     string `json:"memberId"`
	LoginID      string `json:"loginId"`
	Name         string `json:"name,omitempty"`
	IsAdmin      bool   `json:"isAdmin"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates against the identity service, resolves the member
// profile, and persists the session in the local cache.
func (s *Service) Login(ctx context.Context, loginID, password string) (*Session, error) {
	if !s.identity.Enabled() {
		return nil, common.ErrRemoteDisabled
	}

	remoteSession, err := s.identity.Login(ctx, loginID, password)
	if err != nil {
		return nil, err
	}

	session := &Session{
		MemberID:     remoteSession.MemberID,
		LoginID:      loginID,
		IsAdmin:      remoteSession.IsAdmin,
		AccessToken:  remoteSession.AccessToken,
		RefreshToken: remoteSession.RefreshToken,
	}

	if members, merr := s.Members(); merr == nil {
		for _, m := range members {
			if m.ID == session.MemberID {
				session.Name = m.Name
				break
			}
		}
	}

	s.session = session
	s.saveSession(ctx)
	return session, nil
}

// Logout drops the session locally and clears the remote tokens.
func (s *Service) Logout(ctx context.Context) {
	s.session = nil
	s.identity.SetSession("", "")
	if err := s.sessions.Remove(ctx, sessionKey); err != nil {
		s.logger.Warn(ctx, "failed to clear saved session", "error", err.Error())
	}
}

// RestoreSession loads a previously saved session from the cache and
// reinstalls its tokens. Absence of a saved session is not an error.
func (s *Service) RestoreSession(ctx context.Context) error {
	raw, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return err
	}

	s.session = &session
	s.identity.SetSession(session.AccessToken, session.RefreshToken)
	return nil
}

func (s *Service) saveSession(ctx context.Context) {
	if s.session == nil {
		return
	}
	data, err := json.Marshal(s.session)
	if err != nil {
		return
	}
	if err := s.sessions.Set(ctx, sessionKey, string(data)); err != nil {
		s.logger.Warn(ctx, "failed to save session", "error", err.Error())
	}
}

// Session returns the current session, nil for guests.
func (s *Service) Session() *Session {
	return s.session
}

// IsAdmin reports whether the current session carries the admin role.
func (s *Service) IsAdmin() bool {
	return s.session != nil && s.session.IsAdmin
}
