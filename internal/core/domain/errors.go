package domain

import "errors"

var (
	// ErrInvalidCredentials is returned by login for both an unknown username
	// and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided")

	// ErrTokenInvalid covers malformed, badly signed, expired and
	// wrong-type tokens.
	ErrTokenInvalid = errors.New("token is invalid or expired")
)

// ErrTokenBlacklisted matches ErrTokenInvalid under errors.Is.
var ErrTokenBlacklisted error = &chainedError{msg: "token is blacklisted", parent: ErrTokenInvalid}

type chainedError struct {
	msg    string
	parent error
}

func (e *chainedError) Error() string { return e.msg }
func (e *chainedError) Unwrap() error { return e.parent }
