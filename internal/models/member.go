package models

import "fmt"

// Member is a union member's profile as carried in the synchronized
// MemberSet. Credentials are not part of this record; they live in the
// server-side identity table only.
type Member struct {
	ID         string `json:"id"`
	LoginID    string `json:"loginId"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Approved   bool   `json:"approved"`
	SignupDate string `json:"signupDate"`
}

// ValidateMembers checks unique non-empty ids and login ids.
func ValidateMembers(members []Member) error {
	ids := make(map[string]struct{}, len(members))
	logins := make(map[string]struct{}, len(members))
	for i, m := range members {
		if m.ID == "" {
			return fmt.Errorf("member %d: empty id", i)
		}
		if _, dup := ids[m.ID]; dup {
			return fmt.Errorf("member %q: duplicate id", m.ID)
		}
		ids[m.ID] = struct{}{}
		if m.LoginID == "" {
			return fmt.Errorf("member %q: empty login id", m.ID)
		}
		if _, dup := logins[m.LoginID]; dup {
			return fmt.Errorf("member %q: duplicate login id %q", m.ID, m.LoginID)
		}
		logins[m.LoginID] = struct{}{}
	}
	return nil
}
