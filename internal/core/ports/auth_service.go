package ports

import (
	"context"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// SignupInput is the raw signup request as received by the transport layer.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput is the raw login request.
type LoginInput struct {
	Username string
	Password string
}

// AuthService exposes the account operations. Logout and CurrentUser take
// the caller's user id, already established from a verified access token.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (domain.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	RefreshAccess(ctx context.Context, refreshToken string) (string, error)
}
