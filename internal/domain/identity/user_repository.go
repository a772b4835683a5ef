package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists User aggregates.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRoleName(ctx context.Context, roleName string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
