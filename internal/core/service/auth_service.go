package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-api/internal/core/auth"
	"github.com/userhub/identity-api/internal/core/domain"
	"github.com/userhub/identity-api/internal/core/ports"
)

// AuthService implements registration, login, and token refresh. It holds no
// per-request state; every operation is a pure composition of its
// collaborators.
type AuthService struct {
	repo   ports.UserRepository
	cache  ports.ProfileCache
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, cache ports.ProfileCache, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, cache: cache, hasher: hasher, tokens: tokens, logger: logger}
}

// Login authenticates a username/password pair and issues a bearer token.
//
// Unknown usernames and wrong passwords both fail with ErrInvalidCredentials
// so a caller cannot tell which part was wrong. The activation check runs only
// after the password has matched, so activation state is never revealed to a
// caller who does not hold valid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLoginAt = &now

	// The last-login write made any cached profile stale.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, user.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("profile cache invalidation failed")
		}
	}

	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")
	return &ports.LoginResult{AccessToken: token, User: user}, nil
}

// Register creates a new credential record.
//
// The username/email pre-checks are a fast rejection path only; the repository
// enforces uniqueness at the storage layer and its constraint errors map to
// the same ErrDuplicateUsername/ErrDuplicateEmail, which closes the window
// between check and insert under concurrent registrations.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register username check: %w", err)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register email check: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("register: unknown role %q", role)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, ports.CreateUserInput{
		Username:     username,
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// RefreshToken issues a fresh token for a principal that already passed the
// request gate. It never contacts the repository: the presented token proved
// the identity, and no revocation state exists to consult.
func (s *AuthService) RefreshToken(principal domain.Principal) (string, error) {
	return s.tokens.Issue(principal)
}
