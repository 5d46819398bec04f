package ports

import (
	"context"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// UserRepository is the credential store. Create must enforce username and
// email uniqueness atomically with the insert and report a violation as
// domain.ErrUsernameTaken or domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
