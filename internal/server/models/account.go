package models

import "time"

// Account is a login identity. It references the profile in the
// synchronized MemberSet via MemberID but never carries profile data or a
// plaintext credential itself.
type Account struct {
	ID           string
	Login        string
	PasswordHash string
	MemberID     string
	IsAdmin      bool
	CreatedAt    time.Time
}

// RefreshToken is a server-stored, rotated refresh credential.
type RefreshToken struct {
	Token     string
	AccountID string
	Expires   time.Time
}
