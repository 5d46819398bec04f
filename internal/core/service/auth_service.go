package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
)

// dummyPassword is hashed once and verified against on unknown usernames,
// so both login failure paths cost the same.
const dummyPassword = "accounts-auth-dummy-password"

// rehasher is implemented by hashers that can tell a stale hash apart.
type rehasher interface {
	NeedsRehash(encoded string) bool
}

// AuthService implements signup, login, logout, current user and token
// refresh on top of the credential store, the hasher and the token engine.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenEngine
	audit  ports.AuditRecorder
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the service. audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenEngine,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		log:    log,
	}
}

// Signup validates and normalizes the input, checks uniqueness, and stores a
// new user. Field problems are returned together as *domain.ValidationError.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	reg, verr := domain.ValidateRegistration(in.Username, in.Email, in.Password)

	if err := s.checkAvailability(ctx, reg, verr); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		s.record(domain.EventSignup, "", reg.Username, "validation")
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent signup took the username or email after the pre-check.
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			verr.Add(domain.FieldUsername, domain.MsgUsernameTaken)
		case errors.Is(err, domain.ErrEmailTaken):
			verr.Add(domain.FieldEmail, domain.MsgEmailTaken)
		default:
			return nil, fmt.Errorf("signup: %w", err)
		}
		s.record(domain.EventSignup, "", reg.Username, "conflict")
		return nil, verr
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user signed up")
	s.record(domain.EventSignup, created.ID, created.Username, "")
	return created, nil
}

// checkAvailability looks up username and email concurrently, skipping
// fields that already failed a format rule.
func (s *AuthService) checkAvailability(ctx context.Context, reg domain.Registration, verr *domain.ValidationError) error {
	var usernameTaken, emailTaken bool

	g, gctx := errgroup.WithContext(ctx)
	if !verr.Has(domain.FieldUsername) {
		g.Go(func() error {
			var err error
			usernameTaken, err = s.users.ExistsByUsername(gctx, reg.Username)
			return err
		})
	}
	if !verr.Has(domain.FieldEmail) {
		g.Go(func() error {
			var err error
			emailTaken, err = s.users.ExistsByEmail(gctx, reg.Email)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("signup: check availability: %w", err)
	}

	if usernameTaken {
		verr.Add(domain.FieldUsername, domain.MsgUsernameTaken)
	}
	if emailTaken {
		verr.Add(domain.FieldEmail, domain.MsgEmailTaken)
	}
	return nil
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (domain.TokenPair, error) {
	username, verr := domain.ValidateLogin(in.Username, in.Password)
	if err := verr.OrNil(); err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(in.Password, s.dummy())
		s.record(domain.EventLogin, "", username, "unknown_user")
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.record(domain.EventLogin, user.ID, username, "bad_password")
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	if r, ok := s.hasher.(rehasher); ok && r.NeedsRehash(user.PasswordHash) {
		s.log.Info().Str("user_id", user.ID).Msg("password hash uses outdated parameters")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	s.record(domain.EventLogin, user.ID, username, "")
	return pair, nil
}

// Logout blacklists refreshToken. The token must be valid, not yet revoked,
// and issued to userID.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		s.record(domain.EventLogout, userID, "", "invalid_token")
		return fmt.Errorf("logout: %w", err)
	}
	if claims.UserID != userID {
		s.record(domain.EventLogout, userID, "", "foreign_token")
		return fmt.Errorf("logout: %w", domain.ErrTokenInvalid)
	}

	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("logout: revoke: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("jti", claims.TokenID).Msg("refresh token revoked")
	s.record(domain.EventLogout, userID, "", "")
	return nil
}

// CurrentUser returns the account of an already authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RefreshAccess exchanges a refresh token for a new access token.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	access, err := s.tokens.RefreshAccess(ctx, refreshToken)
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, domain.ErrTokenBlacklisted):
			reason = "blacklisted"
		case errors.Is(err, domain.ErrTokenInvalid):
			reason = "invalid_token"
		}
		s.record(domain.EventRefresh, "", "", reason)
		return "", err
	}
	s.record(domain.EventRefresh, "", "", "")
	return access, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// record hands an audit event to the recorder. An empty reason means success.
func (s *AuthService) record(typ domain.AuthEventType, userID, username, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuthEvent{
		Type:       typ,
		UserID:     userID,
		Username:   username,
		Success:    reason == "",
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
}
