package repository

import (
	"context"
	"errors"

	"skygate/internal/domain/entity"
)

// ErrNotFound is returned by lookups when no user matches. Callers must
// distinguish it from transport failures: a missing user denies access,
// an unreachable store is a server error.
var ErrNotFound = errors.New("user not found")

// ErrConflict is returned by Create when a unique constraint rejects the
// insert (the pre-check-then-insert race lost).
var ErrConflict = errors.New("user already exists")

// UserRepository defines the credential-store operations the gateway consumes.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
