package ports

import (
	"context"

	"github.com/userhub/identity-api/internal/core/domain"
)

// RegisterInput is the already-validated registration payload. Shape
// validation (lengths, email format) happens at the HTTP boundary; the
// service only normalizes and enforces business invariants.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string // empty defaults to domain.RoleUser
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	AccessToken string
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	RefreshToken(principal domain.Principal) (string, error)
}
