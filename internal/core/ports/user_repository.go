package ports

import (
	"context"
	"time"

	"github.com/userhub/identity-api/internal/core/domain"
)

// CreateUserInput carries the fields persisted for a new credential record.
// Username and Email are expected to be lowercased by the caller.
type CreateUserInput struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
}

// UpdateUserInput carries optional field updates; nil means "leave unchanged".
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
	IsActive  *bool
}

// UserRepository defines the persistence contract for credential records.
//
// The storage layer is the authoritative enforcer of username/email
// uniqueness: Create must fail with domain.ErrDuplicateUsername or
// domain.ErrDuplicateEmail when a constraint trips, regardless of any
// pre-checks performed by callers.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
