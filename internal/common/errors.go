// Package common holds sentinel errors and small helpers shared by the
// client and server layers. Match sentinels with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Identity errors.
	ErrLoginTaken          = errors.New("login already taken")
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Board and sync errors.
	ErrWrongPassword  = errors.New("post password mismatch")
	ErrInvalidEntity  = errors.New("invalid entity payload")
	ErrRemoteDisabled = errors.New("remote store disabled")
)
