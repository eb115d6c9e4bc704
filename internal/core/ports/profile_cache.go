package ports

import (
	"context"

	"github.com/userhub/identity-api/internal/core/domain"
)

// ProfileCache is a best-effort read-through cache for profile lookups.
// A miss returns (nil, nil); cache failures must never fail the request.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id string) error
}
