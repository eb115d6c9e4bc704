package ports

import (
	"context"

	"github.com/userhub/identity-api/internal/core/domain"
)

type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindOne(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Remove(ctx context.Context, id string) error
}
