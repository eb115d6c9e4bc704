package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-api/internal/core/domain"
	"github.com/userhub/identity-api/internal/core/ports"
)

// UserService implements profile lookup and administrative user management.
// The cache is optional; a nil cache means every lookup hits the repository.
type UserService struct {
	repo   ports.UserRepository
	cache  ports.ProfileCache
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.ProfileCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, logger: logger}
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// FindOne fetches a user by id, consulting the cache first. Cache errors are
// logged and ignored; the repository stays the source of truth.
func (s *UserService) FindOne(ctx context.Context, id string) (*domain.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
		}
	}
	return user, nil
}

// Update applies a partial update. An email change re-checks uniqueness
// against other records before the write; the storage constraint remains the
// final arbiter.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
		if email != current.Email {
			if _, err := s.repo.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrDuplicateEmail
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("update email check: %w", err)
			}
		}
	}

	if input.Role != nil && !domain.ValidRole(*input.Role) {
		return nil, fmt.Errorf("update: unknown role %q", *input.Role)
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info().Str("user_id", id).Msg("user removed")
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache invalidation failed")
	}
}
