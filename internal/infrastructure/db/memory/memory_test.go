package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

func newUser(username, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{Username: username, Email: email, PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)
	created.Email = "changed@example.com"

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)
}

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("alice", "other@example.com"))
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = repo.Create(ctx, newUser("bob", "alice@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	ok, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_ConcurrentCreateSameUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, newUser("alice", fmt.Sprintf("alice%d@example.com", i)))
			switch err {
			case nil:
				successes.Add(1)
			case domain.ErrUsernameTaken:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, successes.Load())
	assert.EqualValues(t, 19, conflicts.Load())
}

func TestBlacklist_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	bl := NewBlacklist()

	first := domain.BlacklistEntry{TokenID: "jti-1", UserID: "u1", RevokedAt: time.Unix(100, 0)}
	require.NoError(t, bl.Add(ctx, first))
	require.NoError(t, bl.Add(ctx, domain.BlacklistEntry{TokenID: "jti-1", UserID: "u1", RevokedAt: time.Unix(200, 0)}))

	ok, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	entry, ok := bl.Entry("jti-1")
	require.True(t, ok)
	assert.True(t, entry.RevokedAt.Equal(first.RevokedAt), "first revocation must be kept")

	ok, err = bl.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuditRepository_Events(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()

	require.NoError(t, repo.InsertEvent(ctx, &domain.AuthEvent{Type: domain.EventSignup, Success: true}))
	require.NoError(t, repo.InsertEvent(ctx, &domain.AuthEvent{Type: domain.EventLogin}))

	events := repo.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventSignup, events[0].Type)
	assert.Equal(t, domain.EventLogin, events[1].Type)
}
