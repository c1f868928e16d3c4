package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taskly/internal/users"
)

// UserDirectory adapts the auth repository for modules that only need to
// resolve users (task assignees, project members). The adapter prevents
// import cycles while keeping credential persistence out of reach.
type UserDirectory struct {
	repo Repository
}

func NewUserDirectory(repo Repository) *UserDirectory {
	return &UserDirectory{
		repo: repo,
	}
}

// GetUser fetches a user by ID.
func (d *UserDirectory) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	user, err := d.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return user, nil
}
