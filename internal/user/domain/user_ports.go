package domain

import (
	"context"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

var (
	ErrUserNotFound      = sharedDomain.NotFound("user")
	ErrUserAlreadyExists = sharedDomain.Conflict("user with this email already exists")
)

// UserRepository guarda el usuario junto con sus eventos pendientes.
type UserRepository interface {
	// Save devuelve ErrUserAlreadyExists si el email ya está en uso.
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id string) string {
	return "user:id:" + id
}
