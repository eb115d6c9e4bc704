package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/identity-api/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache is a read-through cache for profile lookups backed by Redis.
// Key format: user:<id>. Entries expire after profileTTL, which also bounds
// how stale a cached last-login timestamp can get.
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// cachedUser keeps the password hash out of Redis: only the public fields of
// a record are ever serialized.
type cachedUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Get returns the cached user, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &domain.User{
		ID:          cu.ID,
		Username:    cu.Username,
		Email:       cu.Email,
		FirstName:   cu.FirstName,
		LastName:    cu.LastName,
		Role:        cu.Role,
		IsActive:    cu.IsActive,
		LastLoginAt: cu.LastLoginAt,
		CreatedAt:   cu.CreatedAt,
	}, nil
}

// Set stores the user's public fields with the cache TTL.
func (c *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedUser{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, profileTTL).Err()
}

// Invalidate drops the cached entry for id.
func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *ProfileCache) key(id string) string {
	return "user:" + id
}
