package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists with these credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidLoginType   = errors.New("invalid login type")
)

// Token verification failures are tagged so callers can branch on
// valid / expired / invalid without inspecting library errors.
var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenMalformed        = errors.New("token malformed")
)
